package pathfinder

import (
	"go.uber.org/atomic"
)

// Pathfinder is the path-planning capability attached to a session. Planning
// itself lives outside this repository; it only needs the current movements.
type Pathfinder interface {
	SetMovements(m *Movements)
	Movements() *Movements
}

// Holder is the in-process Pathfinder slot. The planner reads Movements from
// whatever goroutine it runs on.
type Holder struct {
	movements atomic.Value
	updates   atomic.Int64
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) SetMovements(m *Movements) {
	h.movements.Store(m)
	h.updates.Inc()
}

func (h *Holder) Movements() *Movements {
	m, _ := h.movements.Load().(*Movements)
	return m
}

// Updates counts SetMovements calls.
func (h *Holder) Updates() int64 {
	return h.updates.Load()
}
