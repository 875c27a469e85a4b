package plugin_manager

// Plugin is the interface to implement a plugin
type Plugin interface {
	GetId() string
}

// LoadPlugin is a plugin that attaches behaviour to the session when registered.
type LoadPlugin interface {
	Plugin
	Load(helper PluginHelper) error
}

// RequirePlugin is a plugin that must be registered after the plugins it names.
type RequirePlugin interface {
	Plugin
	Requires() []string
}

// plugin is the internal implementation returned by MakePlugin
type plugin struct {
	id       string
	requires []string
	loadFunc func(helper PluginHelper) error
}

// GetId returns the unique id of the plugin
func (p *plugin) GetId() string {
	return p.id
}

// Requires returns the ids of the plugins that have to be registered first
func (p *plugin) Requires() []string {
	return p.requires
}

// Load runs the plugin's loadFunc
func (p *plugin) Load(helper PluginHelper) error {
	if p.loadFunc == nil {
		return nil
	}
	return p.loadFunc(helper)
}

// MakePlugin is a helper function that returns a LoadPlugin with the given id, requirements and loadFunc.
func MakePlugin(id string, requires []string, loadFn func(helper PluginHelper) error) LoadPlugin {
	return &plugin{
		id:       id,
		requires: requires,
		loadFunc: loadFn,
	}
}
