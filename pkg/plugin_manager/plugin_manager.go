package plugin_manager

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/session"
)

var (
	ErrInvalidPlugin     = errors.New("invalid plugin")
	ErrDuplicatePlugin   = errors.New("plugin already registered")
	ErrMissingDependency = errors.New("required plugin not registered")
)

type Config struct {
}

func NewConfig() (Config, error) {
	c := Config{}

	return c, nil
}

type Manager interface {
	Register(p interface{}) error
	Registered() []string
}

// ManagerImpl registers plugins against a single session. A new session gets
// a new manager.
type ManagerImpl struct {
	c          Config
	l          *zap.Logger
	session    session.Session
	mu         sync.Mutex
	plugins    map[string]Plugin
	registered []string
}

// Register registers the given Plugin with the session.
func (m *ManagerImpl) Register(p interface{}) error {
	if p == nil {
		return ErrInvalidPlugin
	}

	plgin, ok := p.(Plugin)
	if !ok {
		return ErrInvalidPlugin
	}

	if plgin.GetId() == "" {
		return fmt.Errorf("%w: must provide a unique plugin id", ErrInvalidPlugin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plugins[plgin.GetId()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, plgin.GetId())
	}

	if rp, ok := plgin.(RequirePlugin); ok {
		for _, r := range rp.Requires() {
			if _, ok := m.plugins[r]; !ok {
				return fmt.Errorf("%w: %s requires %s", ErrMissingDependency, plgin.GetId(), r)
			}
		}
	}

	if lp, ok := plgin.(LoadPlugin); ok {
		err := lp.Load(NewPluginHelper(plgin.GetId(), m.l, m.session))
		if err != nil {
			return fmt.Errorf("loading plugin %s: %w", plgin.GetId(), err)
		}
	}

	m.plugins[plgin.GetId()] = plgin
	m.registered = append(m.registered, plgin.GetId())
	m.l.Info("registered plugin", zap.String("plugin_id", plgin.GetId()), zap.String("session_id", m.session.ID()))

	return nil
}

// Registered returns the plugin ids in registration order.
func (m *ManagerImpl) Registered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.registered))
	copy(out, m.registered)
	return out
}

func New(c Config, l *zap.Logger, s session.Session) (*ManagerImpl, error) {
	if s == nil {
		return nil, errors.New("plugin manager needs a session")
	}

	m := &ManagerImpl{
		c:       c,
		l:       l.Named("plugin-manager"),
		session: s,
		plugins: make(map[string]Plugin),
	}

	return m, nil
}
