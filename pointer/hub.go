// Package pointer carries global pointer-movement events from a host
// (terminal, window, synthetic driver) to any number of listeners.
//
// Delivery is synchronous and in arrival order on the publisher's goroutine.
// The hub never queues or coalesces; a host that coalesces high-frequency
// input simply publishes fewer events.
package pointer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/robotrak/vmath"
)

// Event is one pointer position in the host's screen space
type Event struct {
	Pos    vmath.Vec2
	Time   time.Time
	Source string
}

// Hub fans pointer events out to subscribers
type Hub struct {
	mu     sync.Mutex
	subs   []*Subscription // copy-on-write, read lock-free by Publish
	nextID uint64
}

// Subscription is a scoped listener registration
// Close releases it. Publishes that start after Close returns never reach the
// handler; a Publish already running on another goroutine may still deliver once
type Subscription struct {
	id     uint64
	hub    *Hub
	fn     func(Event)
	closed atomic.Bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn for every subsequent Publish
// A nil fn yields an already-closed subscription
func (h *Hub) Subscribe(fn func(Event)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	s := &Subscription{id: h.nextID, hub: h, fn: fn}
	if fn == nil {
		s.closed.Store(true)
		return s
	}

	next := make([]*Subscription, len(h.subs), len(h.subs)+1)
	copy(next, h.subs)
	h.subs = append(next, s)
	return s
}

// Publish delivers ev to every active subscriber in registration order
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	subs := h.subs
	h.mu.Unlock()

	for _, s := range subs {
		// Re-checked per subscriber: a handler may close a later one
		if s.closed.Load() {
			continue
		}
		s.fn(ev)
	}
}

// Len returns the number of active subscriptions
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.subs {
		if s.id == id {
			next := make([]*Subscription, 0, len(h.subs)-1)
			next = append(next, h.subs[:i]...)
			next = append(next, h.subs[i+1:]...)
			h.subs = next
			return
		}
	}
}

// Close unregisters the listener
// Idempotent and safe on a nil subscription
func (s *Subscription) Close() {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.hub.remove(s.id)
}

// Active reports whether the subscription still receives events
func (s *Subscription) Active() bool {
	return s != nil && !s.closed.Load()
}
