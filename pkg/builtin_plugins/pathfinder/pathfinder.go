package pathfinder

import (
	"github.com/jirwin/qbot/pkg/pathfinder"
	"github.com/jirwin/qbot/pkg/plugin_manager"
)

const PluginID = "pathfinder"

func load(helper plugin_manager.PluginHelper) error {
	s := helper.Session()
	if s.Pathfinder() != nil {
		return nil
	}

	s.SetPathfinder(pathfinder.NewHolder())
	helper.Logger().Debug("installed pathfinder")

	return nil
}

// Register returns the plugin that gives a session its pathfinding capability.
func Register() plugin_manager.LoadPlugin {
	return plugin_manager.MakePlugin(PluginID, nil, load)
}
