package builtin_plugins

import (
	"github.com/jirwin/qbot/pkg/builtin_plugins/core"
	"github.com/jirwin/qbot/pkg/builtin_plugins/pathfinder"
	"github.com/jirwin/qbot/pkg/plugin_manager"
	"github.com/jirwin/qbot/pkg/reconnect"
)

var (
	Core       = core.Register
	Pathfinder = pathfinder.Register
)

// Default returns the plugins every session loads, in registration order.
func Default(c core.Config, starter reconnect.Starter, opts ...reconnect.Option) []plugin_manager.Plugin {
	return []plugin_manager.Plugin{
		Pathfinder(),
		Core(c, starter, opts...),
	}
}
