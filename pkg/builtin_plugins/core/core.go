// Package core handles the session events that don't belong to any other
// plugin: the whisper fix, pathfinder movements, spawn logging and
// reconnecting after a kick.
package core

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/builtin_plugins/pathfinder"
	"github.com/jirwin/qbot/pkg/config"
	"github.com/jirwin/qbot/pkg/kick"
	mvmt "github.com/jirwin/qbot/pkg/pathfinder"
	"github.com/jirwin/qbot/pkg/plugin_manager"
	"github.com/jirwin/qbot/pkg/reconnect"
	"github.com/jirwin/qbot/pkg/session"
)

const PluginID = "core"

var ErrNoPathfinder = errors.New("session has no pathfinder")

type Config struct {
	ReconnectOnKick reconnect.Policy
	Pathfinder      config.PathfinderPlugin
}

func NewConfig(c config.Config) Config {
	return Config{
		ReconnectOnKick: reconnect.NewPolicy(c.Plugins.Core.ReconnectOnKick),
		Pathfinder:      c.Plugins.Pathfinder,
	}
}

type corePlugin struct {
	c       Config
	starter reconnect.Starter
	opts    []reconnect.Option
}

// Register returns the core plugin. It has to be registered once per session,
// after the pathfinder plugin. starter is called to replace a session that got
// kicked when c.ReconnectOnKick is enabled.
func Register(c Config, starter reconnect.Starter, opts ...reconnect.Option) plugin_manager.LoadPlugin {
	p := &corePlugin{
		c:       c,
		starter: starter,
		opts:    opts,
	}

	return plugin_manager.MakePlugin(PluginID, []string{pathfinder.PluginID}, p.load)
}

func (p *corePlugin) load(helper plugin_manager.PluginHelper) error {
	s := helper.Session()
	l := helper.Logger().With(zap.String("session_id", s.ID()))

	pf := s.Pathfinder()
	if pf == nil {
		return ErrNoPathfinder
	}
	movements, err := mvmt.ForVersion(s.Version(), p.c.Pathfinder)
	if err != nil {
		return err
	}

	fixWhisper(s)
	pf.SetMovements(movements)

	s.OnceSpawn(func() {
		l.Info("Spawned")
	})

	r := reconnect.New(p.c.ReconnectOnKick, l, p.starter, p.opts...)
	s.OnKicked(func(reason string, loggedIn bool) {
		handleKick(l, r, reason, loggedIn)
	})

	return nil
}

// fixWhisper sends whispers with /w, since /tell is gone on newer servers.
func fixWhisper(s session.Session) {
	s.SetWhisper(func(username, message string) error {
		return s.Chat(fmt.Sprintf("/w %s %s", username, message))
	})
}

func handleKick(l *zap.Logger, r *reconnect.Reconnector, payload string, loggedIn bool) {
	reason, ok := kick.Reason(payload)
	l.Error(kick.Format(reason, ok), zap.Bool("logged_in", loggedIn))

	r.AfterKick(reason)
}
