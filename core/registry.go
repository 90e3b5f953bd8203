package core

import "sync"

// ── Registry ──────────────────────────────────────────────────────────────────

// DefaultRegistry is a thread-safe implementation of Registry.
type DefaultRegistry struct {
	mu      sync.RWMutex
	probers map[Format]Prober
}

// NewRegistry returns an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{probers: make(map[Format]Prober)}
}

func (r *DefaultRegistry) RegisterProber(f Format, p Prober) {
	r.mu.Lock()
	r.probers[f] = p
	r.mu.Unlock()
}

func (r *DefaultRegistry) ProberFor(f Format) (Prober, bool) {
	r.mu.RLock()
	p, ok := r.probers[f]
	r.mu.RUnlock()
	return p, ok
}
