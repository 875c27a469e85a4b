package session

import (
	"sync"

	"go.uber.org/atomic"
)

// Handler receives the payload passed to Emit.
type Handler func(payload interface{})

type registeredHandler struct {
	id int
	fn Handler
}

// Emitter dispatches named events to handlers in registration order, on the
// goroutine that calls Emit.
type Emitter struct {
	mu       sync.Mutex
	count    int
	handlers map[string][]registeredHandler
}

func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[string][]registeredHandler),
	}
}

// Subscription identifies one registered handler.
type Subscription struct {
	emitter *Emitter
	event   string
	id      int
}

func (s Subscription) Unsubscribe() bool {
	if s.emitter == nil {
		return false
	}
	return s.emitter.Off(s.event, s.id)
}

func (e *Emitter) add(event string, build func(id int) Handler) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.count++
	id := e.count
	e.handlers[event] = append(e.handlers[event], registeredHandler{id: id, fn: build(id)})

	return Subscription{emitter: e, event: event, id: id}
}

// On registers a handler that runs on every emission of event.
func (e *Emitter) On(event string, fn Handler) Subscription {
	return e.add(event, func(int) Handler { return fn })
}

// Once registers a handler that runs on the first emission of event only and
// then removes itself. Concurrent emissions still run it at most once.
func (e *Emitter) Once(event string, fn Handler) Subscription {
	return e.add(event, func(id int) Handler {
		fired := atomic.NewBool(false)
		return func(payload interface{}) {
			if !fired.CAS(false, true) {
				return
			}
			e.Off(event, id)
			fn(payload)
		}
	})
}

func (e *Emitter) Off(event string, id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	hs := e.handlers[event]
	for i, h := range hs {
		if h.id == id {
			e.handlers[event] = append(hs[:i:i], hs[i+1:]...)
			return true
		}
	}

	return false
}

// Emit calls every handler registered for event. Handlers may subscribe or
// unsubscribe while being dispatched.
func (e *Emitter) Emit(event string, payload interface{}) {
	e.mu.Lock()
	hs := make([]registeredHandler, len(e.handlers[event]))
	copy(hs, e.handlers[event])
	e.mu.Unlock()

	for _, h := range hs {
		h.fn(payload)
	}
}

func (e *Emitter) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.handlers[event])
}
