package session

import (
	"fmt"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/jirwin/qbot/pkg/pathfinder"
)

const (
	EventSpawn  = "spawn"
	EventKicked = "kicked"
)

// KickedEvent is the payload of EventKicked. Reason is the raw chat component
// JSON the server sent.
type KickedEvent struct {
	Reason   string
	LoggedIn bool
}

// WhisperFunc sends a private message to a single player.
type WhisperFunc func(username, message string) error

// Session is a live bot connection as seen by plugins. The host owns its
// lifecycle; plugins only attach behaviour to it.
type Session interface {
	ID() string
	Username() string
	Version() string

	Chat(text string) error
	Whisper(username, message string) error
	SetWhisper(fn WhisperFunc)

	Pathfinder() pathfinder.Pathfinder
	SetPathfinder(p pathfinder.Pathfinder)

	OnSpawn(fn func()) Subscription
	OnceSpawn(fn func()) Subscription
	OnKicked(fn func(reason string, loggedIn bool)) Subscription
}

// Base implements Session on top of a raw chat sender. Transports embed it and
// call Spawned and Kicked as network events arrive.
type Base struct {
	id       string
	username string
	version  string
	chat     func(text string) error
	events   *Emitter

	mu         sync.RWMutex
	whisper    WhisperFunc
	pathfinder pathfinder.Pathfinder
}

func NewBase(username, version string, chat func(text string) error) *Base {
	return &Base{
		id:       uuid.NewV4().String(),
		username: username,
		version:  version,
		chat:     chat,
		events:   NewEmitter(),
	}
}

func (b *Base) ID() string {
	return b.id
}

func (b *Base) Username() string {
	return b.username
}

func (b *Base) Version() string {
	return b.version
}

func (b *Base) Chat(text string) error {
	return b.chat(text)
}

// Whisper uses the override installed with SetWhisper, or /tell.
func (b *Base) Whisper(username, message string) error {
	b.mu.RLock()
	fn := b.whisper
	b.mu.RUnlock()

	if fn != nil {
		return fn(username, message)
	}
	return b.chat(fmt.Sprintf("/tell %s %s", username, message))
}

func (b *Base) SetWhisper(fn WhisperFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.whisper = fn
}

func (b *Base) Pathfinder() pathfinder.Pathfinder {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.pathfinder
}

func (b *Base) SetPathfinder(p pathfinder.Pathfinder) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pathfinder = p
}

func (b *Base) OnSpawn(fn func()) Subscription {
	return b.events.On(EventSpawn, func(interface{}) { fn() })
}

func (b *Base) OnceSpawn(fn func()) Subscription {
	return b.events.Once(EventSpawn, func(interface{}) { fn() })
}

func (b *Base) OnKicked(fn func(reason string, loggedIn bool)) Subscription {
	return b.events.On(EventKicked, func(payload interface{}) {
		ev, ok := payload.(KickedEvent)
		if !ok {
			return
		}
		fn(ev.Reason, ev.LoggedIn)
	})
}

func (b *Base) Spawned() {
	b.events.Emit(EventSpawn, nil)
}

func (b *Base) Kicked(reason string, loggedIn bool) {
	b.events.Emit(EventKicked, KickedEvent{Reason: reason, LoggedIn: loggedIn})
}

func (b *Base) Events() *Emitter {
	return b.events
}
