package reconnect

import (
	"sync"
	"time"
)

type State int

const (
	Connected State = iota
	ReconnectPending
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case ReconnectPending:
		return "reconnect_pending"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a copy of the tracker state. Reconnects counts sessions that
// connected to replace a kicked one.
type Snapshot struct {
	SessionID  string    `json:"session_id"`
	Username   string    `json:"username"`
	Version    string    `json:"version"`
	State      State     `json:"state"`
	LastKick   string    `json:"last_kick,omitempty"`
	KickedAt   time.Time `json:"kicked_at,omitempty"`
	Kicks      int       `json:"kicks"`
	Reconnects int       `json:"reconnects"`
}

// Tracker records the connection state across sessions.
type Tracker struct {
	mu sync.Mutex
	s  Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{s: Snapshot{State: Disconnected}}
}

func (t *Tracker) Connected(sessionID, username, version string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.s.State == ReconnectPending {
		t.s.Reconnects++
	}
	t.s.SessionID = sessionID
	t.s.Username = username
	t.s.Version = version
	t.s.State = Connected
}

func (t *Tracker) Kicked(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.LastKick = reason
	t.s.KickedAt = time.Now()
	t.s.Kicks++
}

func (t *Tracker) set(state State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.State = state
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.s
}

func (t *Tracker) Disconnected() {
	t.set(Disconnected)
}

// Ended marks the session as disconnected unless a kick already moved it on
// or a newer session replaced it.
func (t *Tracker) Ended(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.s.SessionID == sessionID && t.s.State == Connected {
		t.s.State = Disconnected
	}
}
