package stream

import "sync"

// PinRegistry tracks the entry IDs the user has pinned. Pinned
// entries are exempt from capacity eviction. Created empty at session
// start; cleared on explicit clear or session end.
type PinRegistry struct {
	mu  sync.RWMutex
	ids map[uint64]struct{}
}

func NewPinRegistry() *PinRegistry {
	return &PinRegistry{ids: make(map[uint64]struct{})}
}

// Toggle adds or removes a pin and reports whether the ID is pinned
// afterwards. Idempotent in the toggle sense: two calls restore the
// previous state.
func (p *PinRegistry) Toggle(id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.ids[id]; ok {
		delete(p.ids, id)
		return false
	}
	p.ids[id] = struct{}{}
	return true
}

func (p *PinRegistry) Pinned(id uint64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.ids[id]
	return ok
}

func (p *PinRegistry) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ids)
}

func (p *PinRegistry) Clear() {
	p.mu.Lock()
	p.ids = make(map[uint64]struct{})
	p.mu.Unlock()
}
