package service

import (
	"fmt"
	"log"
	"slices"
	"sync"
)

// entry is one registered service and the Init args it was registered with
type entry struct {
	svc  Service
	args []any
}

// Hub owns the registered host services and drives them through
// Init, Start and Stop in dependency order
type Hub struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string // resolved by InitAll, nil after Register
	live    []string // initialized and not yet stopped, in order
}

func NewHub() *Hub {
	return &Hub{entries: make(map[string]entry)}
}

// Register adds svc; args are passed verbatim to its Init
func (h *Hub) Register(svc Service, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, dup := h.entries[name]; dup {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.entries[name] = entry{svc: svc, args: args}
	h.order = nil
	return nil
}

// Get looks a service up by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[name]
	return e.svc, ok
}

// MustGet returns the named service as T, panicking when it is absent
// or of another type
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("service %q not registered", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("service %q is %T", name, svc))
	}
	return typed
}

// InitAll resolves the dependency order and initializes every service
// A failing Init stops whatever was already initialized, newest first
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	h.live = h.live[:0]
	for _, name := range h.order {
		e := h.entries[name]
		if err := e.svc.Init(e.args...); err != nil {
			h.unwind()
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		h.live = append(h.live, name)
	}
	log.Printf("service: initialized %v", h.order)
	return nil
}

// StartAll starts services in dependency order
// A failing Start stops every initialized service, including the one that
// failed, since Init may already hold resources
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range h.order {
		if err := h.entries[name].svc.Start(); err != nil {
			h.unwind()
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
	}
	return nil
}

// StopAll stops live services in reverse order; repeated calls are no-ops
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unwind()
}

// unwind stops live services newest first; Stop errors are logged only
func (h *Hub) unwind() {
	for i := len(h.live) - 1; i >= 0; i-- {
		name := h.live[i]
		if err := h.entries[name].svc.Stop(); err != nil {
			log.Printf("service %s stop: %v", name, err)
		}
	}
	h.live = h.live[:0]
}

// resolve orders services so each follows its dependencies
// Among services that are ready at the same time, names sort ascending
func (h *Hub) resolve() ([]string, error) {
	pending := make(map[string]int, len(h.entries))
	unlocks := make(map[string][]string)

	for name, e := range h.entries {
		deps := e.svc.Dependencies()
		pending[name] = len(deps)
		for _, dep := range deps {
			if _, ok := h.entries[dep]; !ok {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			unlocks[dep] = append(unlocks[dep], name)
		}
	}

	var ready []string
	for name, n := range pending {
		if n == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(h.entries))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		next := slices.Clone(unlocks[name])
		slices.Sort(next)
		for _, n := range next {
			if pending[n]--; pending[n] == 0 {
				ready = append(ready, n)
			}
		}
	}

	if len(order) != len(h.entries) {
		return nil, fmt.Errorf("circular dependency among services")
	}
	return order, nil
}

// Order returns the resolved lifecycle order (empty before InitAll)
func (h *Hub) Order() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.order)
}
