package bot

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/plugin_manager"
	"github.com/jirwin/qbot/pkg/reconnect"
	"github.com/jirwin/qbot/pkg/session"
)

var ErrNotStarted = errors.New("bot not started")

// Conn is a live session the bot owns.
type Conn interface {
	session.Session
	Run() error
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

type ConnectorFunc func(ctx context.Context) (Conn, error)

func (f ConnectorFunc) Connect(ctx context.Context) (Conn, error) {
	return f(ctx)
}

// PluginsFunc returns the plugins to register on a new session. starter and
// opts are what the core plugin needs to come back after a kick.
type PluginsFunc func(starter reconnect.Starter, opts ...reconnect.Option) []plugin_manager.Plugin

type Config struct{}

func NewConfig() (Config, error) {
	return Config{}, nil
}

type QBot struct {
	c         Config
	l         *zap.Logger
	connector Connector
	plugins   PluginsFunc
	tracker   *reconnect.Tracker

	mu      sync.Mutex
	current Conn
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	sessions atomic.Int64
}

// Start opens the first session. Later sessions are opened by the core plugin
// through StartNewSession.
func (q *QBot) Start(ctx context.Context) error {
	q.mu.Lock()
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.mu.Unlock()

	return q.StartNewSession(q.ctx)
}

// StartNewSession connects a brand new session, registers the plugins on it
// and runs its event loop in the background.
func (q *QBot) StartNewSession(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	q.mu.Lock()
	root := q.ctx
	q.mu.Unlock()
	if root == nil {
		return ErrNotStarted
	}

	conn, err := q.connector.Connect(ctx)
	if err != nil {
		q.l.Error("error connecting", zap.Error(err))
		return err
	}

	m, err := plugin_manager.New(plugin_manager.Config{}, q.l, conn)
	if err != nil {
		_ = conn.Close()
		return err
	}

	for _, p := range q.plugins(q, reconnect.WithTracker(q.tracker), reconnect.WithContext(root)) {
		err = m.Register(p)
		if err != nil {
			q.l.Error("error registering plugin", zap.Error(err))
			_ = conn.Close()
			return err
		}
	}

	// Stop cancels root under q.mu before it waits on wg.
	q.mu.Lock()
	if err := root.Err(); err != nil {
		q.mu.Unlock()
		_ = conn.Close()
		q.l.Info("bot stopped while connecting, dropping session", zap.String("session_id", conn.ID()))
		return err
	}
	prev := q.current
	q.current = conn
	q.sessions.Inc()
	q.tracker.Connected(conn.ID(), conn.Username(), conn.Version())
	q.wg.Add(1)
	q.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	q.l.Info("session started",
		zap.String("session_id", conn.ID()),
		zap.String("username", conn.Username()),
		zap.String("version", conn.Version()),
	)

	go func() {
		defer q.wg.Done()

		err := conn.Run()
		q.tracker.Ended(conn.ID())
		q.l.Info("session ended", zap.String("session_id", conn.ID()), zap.Error(err))
	}()

	return nil
}

// Stop closes the current session and waits for its event loop to return. A
// reconnect that is already scheduled will fail with a cancelled context.
func (q *QBot) Stop() {
	q.mu.Lock()
	conn := q.current
	q.current = nil
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	q.wg.Wait()
}

func (q *QBot) Current() Conn {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.current
}

// Sessions counts sessions started since the process began.
func (q *QBot) Sessions() int64 {
	return q.sessions.Load()
}

func (q *QBot) Tracker() *reconnect.Tracker {
	return q.tracker
}

func New(
	c Config,
	l *zap.Logger,
	connector Connector,
	plugins PluginsFunc,
	tracker *reconnect.Tracker,
) (*QBot, error) {
	if connector == nil {
		return nil, errors.New("bot needs a connector")
	}
	if tracker == nil {
		tracker = reconnect.NewTracker()
	}
	if plugins == nil {
		plugins = func(reconnect.Starter, ...reconnect.Option) []plugin_manager.Plugin { return nil }
	}

	q := &QBot{
		c:         c,
		l:         l.Named("qbot"),
		connector: connector,
		plugins:   plugins,
		tracker:   tracker,
	}

	return q, nil
}
