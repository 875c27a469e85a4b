package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jirwin/qbot/pkg/builtin_plugins/pathfinder"
	"github.com/jirwin/qbot/pkg/config"
	"github.com/jirwin/qbot/pkg/mcdata"
	mvmt "github.com/jirwin/qbot/pkg/pathfinder"
	"github.com/jirwin/qbot/pkg/plugin_manager"
	"github.com/jirwin/qbot/pkg/reconnect"
	"github.com/jirwin/qbot/pkg/session"
)

type fakeScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, d)
	f.fns = append(f.fns, fn)
}

func (f *fakeScheduler) fire() {
	f.mu.Lock()
	fns := f.fns
	f.fns = nil
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type harness struct {
	session *session.Base
	chat    []string
	logs    *observer.ObservedLogs
	starts  *atomic.Int32
	sched   *fakeScheduler
	tracker *reconnect.Tracker
}

func setup(t *testing.T, version string, policy reconnect.Policy) (*harness, error) {
	h := &harness{
		starts:  atomic.NewInt32(0),
		sched:   &fakeScheduler{},
		tracker: reconnect.NewTracker(),
	}
	h.session = session.NewBase("qbot", version, func(text string) error {
		h.chat = append(h.chat, text)
		return nil
	})

	obs, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs

	m, err := plugin_manager.New(plugin_manager.Config{}, zap.New(obs), h.session)
	require.NoError(t, err)
	require.NoError(t, m.Register(pathfinder.Register()))

	starter := reconnect.StarterFunc(func(ctx context.Context) error {
		h.starts.Inc()
		return nil
	})
	err = m.Register(Register(
		Config{ReconnectOnKick: policy},
		starter,
		reconnect.WithScheduler(h.sched),
		reconnect.WithTracker(h.tracker),
	))

	return h, err
}

func (h *harness) messages(level zapcore.Level) []string {
	var out []string
	for _, e := range h.logs.All() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestCore_WhisperUsesW(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{})
	require.NoError(t, err)

	require.NoError(t, h.session.Whisper("Alice", "hello"))
	require.Equal(t, []string{"/w Alice hello"}, h.chat)
}

func TestCore_InstallsMovements(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{})
	require.NoError(t, err)

	holder, ok := h.session.Pathfinder().(*mvmt.Holder)
	require.True(t, ok)
	require.Equal(t, int64(1), holder.Updates())

	m := holder.Movements()
	require.NotNil(t, m)
	require.Equal(t, "1.17.1", m.Version)
	require.Equal(t, int32(756), m.Protocol)
}

func TestCore_UnknownVersion(t *testing.T) {
	_, err := setup(t, "0.1", reconnect.Policy{})
	require.ErrorIs(t, err, mcdata.ErrUnknownVersion)
}

func TestCore_RequiresPathfinder(t *testing.T) {
	s := session.NewBase("qbot", "1.17.1", func(string) error { return nil })
	m, err := plugin_manager.New(plugin_manager.Config{}, zap.NewNop(), s)
	require.NoError(t, err)

	err = m.Register(Register(Config{}, nil))
	require.ErrorIs(t, err, plugin_manager.ErrMissingDependency)

	require.ErrorIs(t, (&corePlugin{}).load(plugin_manager.NewPluginHelper(PluginID, zap.NewNop(), s)), ErrNoPathfinder)
}

func TestCore_SpawnLoggedOnce(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{})
	require.NoError(t, err)

	h.session.Spawned()
	h.session.Spawned()
	h.session.Spawned()

	require.Equal(t, 1, h.logs.FilterMessage("Spawned").Len())
}

func TestCore_KickWithReasonReconnects(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{Enabled: true, Delay: 5000 * time.Millisecond})
	require.NoError(t, err)

	h.session.Kicked(`{"text":"Banned"}`, true)

	require.Equal(t, []string{`Kicked from server: "Banned"`}, h.messages(zapcore.ErrorLevel))
	require.Contains(t, h.messages(zapcore.InfoLevel), "Reconnecting in 5000ms")
	require.Equal(t, []time.Duration{5 * time.Second}, h.sched.delays)
	require.Equal(t, int32(0), h.starts.Load())
	require.Equal(t, reconnect.ReconnectPending, h.tracker.Snapshot().State)
	require.Equal(t, "Banned", h.tracker.Snapshot().LastKick)

	h.sched.fire()
	require.Equal(t, int32(1), h.starts.Load())
}

func TestCore_KickNoReasonDisabled(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{Enabled: false})
	require.NoError(t, err)

	h.session.Kicked(`{}`, false)
	h.sched.fire()

	require.Equal(t, []string{"Kicked from server for no reason"}, h.messages(zapcore.ErrorLevel))
	require.Empty(t, h.sched.delays)
	require.Equal(t, int32(0), h.starts.Load())
	require.Equal(t, reconnect.Disconnected, h.tracker.Snapshot().State)
}

func TestCore_MalformedKickStillReconnects(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{Enabled: true})
	require.NoError(t, err)

	h.session.Kicked(`not json`, true)
	h.sched.fire()

	require.Equal(t, []string{"Kicked from server for no reason"}, h.messages(zapcore.ErrorLevel))
	require.Equal(t, int32(1), h.starts.Load())
}

func TestCore_BareStringKickHasNoReason(t *testing.T) {
	h, err := setup(t, "1.17.1", reconnect.Policy{Enabled: true})
	require.NoError(t, err)

	h.session.Kicked(`"Banned"`, true)

	require.Equal(t, []string{"Kicked from server for no reason"}, h.messages(zapcore.ErrorLevel))
	require.Empty(t, h.tracker.Snapshot().LastKick)
	require.Equal(t, []time.Duration{0}, h.sched.delays)
}

func TestCore_EveryKickHandled(t *testing.T) {
	h, err := setup(t, "1.16.5", reconnect.Policy{Enabled: true, Delay: time.Second})
	require.NoError(t, err)

	h.session.Kicked(`{"text":"one"}`, true)
	h.session.Kicked(`{"text":"two"}`, true)
	h.sched.fire()

	require.Equal(t, []string{`Kicked from server: "one"`, `Kicked from server: "two"`}, h.messages(zapcore.ErrorLevel))
	require.Equal(t, int32(2), h.starts.Load())
}

func TestNewConfig(t *testing.T) {
	c := config.Default()
	c.Plugins.Core.ReconnectOnKick = config.ReconnectOnKick{Enabled: true, Delay: -5}

	cc := NewConfig(c)
	require.True(t, cc.ReconnectOnKick.Enabled)
	require.Equal(t, time.Duration(0), cc.ReconnectOnKick.Delay)
}
