// Package pointer routes pointer motion to the menus that are currently attached.
//
// A host owns one Hub per pointer device and feeds it every motion sample.
// Each menu attaches its own sink and detaches on teardown, so menus never
// share pointer history.
package pointer

import (
	"sync"

	"github.com/dshills/flyout/internal/aim"
)

// Sink receives pointer samples.
type Sink interface {
	RecordPointer(p aim.Point)
}

type entry struct {
	id   uint64
	sink Sink
}

// Hub fans pointer samples out to attached sinks in attach order.
type Hub struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []entry
	last    aim.Point
	hasLast bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Attach registers sink and returns a function that detaches it.
// The detach function is safe to call more than once.
func (h *Hub) Attach(sink Sink) (detach func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.entries = append(h.entries, entry{id: id, sink: sink})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, e := range h.entries {
		if e.id == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Move delivers p to every attached sink.
// Sinks may attach or detach while being called; the change applies to the next sample.
func (h *Hub) Move(p aim.Point) {
	h.mu.Lock()
	h.last = p
	h.hasLast = true
	sinks := make([]Sink, len(h.entries))
	for i, e := range h.entries {
		sinks[i] = e.sink
	}
	h.mu.Unlock()

	for _, s := range sinks {
		s.RecordPointer(p)
	}
}

// Last returns the most recent sample seen by the hub.
func (h *Hub) Last() (aim.Point, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.hasLast
}

// Len returns the number of attached sinks.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
