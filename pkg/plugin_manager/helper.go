package plugin_manager

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/session"
)

// PluginHelper is what a plugin gets to work with while it loads.
type PluginHelper interface {
	Session() session.Session
	Logger() *zap.Logger
}

type pluginHelper struct {
	session  session.Session
	l        *zap.Logger
	pluginID string
}

func (p *pluginHelper) Session() session.Session {
	return p.session
}

func (p *pluginHelper) Logger() *zap.Logger {
	return p.l
}

func NewPluginHelper(pluginID string, l *zap.Logger, s session.Session) *pluginHelper {
	ph := &pluginHelper{
		session:  s,
		l:        l.Named(fmt.Sprintf("plugin-%s", pluginID)),
		pluginID: pluginID,
	}

	return ph
}
