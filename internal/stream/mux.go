package stream

import (
	"sort"
	"sync"

	"logdeck/internal/model"
)

// DefaultCapacity is the canonical buffer bound.
const DefaultCapacity = 5000

// Mux owns the canonical entry buffer and is its sole mutator: every
// admission, eviction, and clear goes through it, and it assigns the
// strictly increasing entry IDs in admission order.
type Mux struct {
	mu      sync.Mutex
	entries []model.LogEntry // admission order
	sorted  []model.LogEntry // timestamp order, rebuilt lazily
	dirty   bool
	nextID  uint64
	cap     int
	pins    *PinRegistry

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	subSeq int
}

func NewMux(capacity int, pins *PinRegistry) *Mux {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Mux{cap: capacity, pins: pins, subs: make(map[int]chan struct{})}
}

// Admit stamps IDs in admission order, appends the batch, and
// enforces capacity. Eviction removes the oldest non-pinned entry by
// admission order; when everything left is pinned the buffer is
// allowed to overflow transiently rather than dropping pinned data.
// Subscribers are notified once per batch, not once per line.
func (m *Mux) Admit(batch []model.LogEntry) {
	if len(batch) == 0 {
		return
	}
	m.mu.Lock()
	for i := range batch {
		m.nextID++
		batch[i].ID = m.nextID
		m.entries = append(m.entries, batch[i])
	}
	for len(m.entries) > m.cap {
		idx := -1
		for i := range m.entries {
			if !m.pins.Pinned(m.entries[i].ID) {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}
		m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	}
	m.dirty = true
	m.mu.Unlock()
	m.notify()
}

// Snapshot returns a copy of the buffer ordered by timestamp, ties
// broken by ascending ID. It never mutates observable state.
func (m *Mux) Snapshot() []model.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirty {
		m.sorted = make([]model.LogEntry, len(m.entries))
		copy(m.sorted, m.entries)
		sort.SliceStable(m.sorted, func(i, j int) bool {
			a, b := m.sorted[i], m.sorted[j]
			if !a.Timestamp.Equal(b.Timestamp) {
				return a.Timestamp.Before(b.Timestamp)
			}
			return a.ID < b.ID
		})
		m.dirty = false
	}
	out := make([]model.LogEntry, len(m.sorted))
	copy(out, m.sorted)
	return out
}

func (m *Mux) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear empties the buffer and releases pins. IDs are never reused
// across a clear.
func (m *Mux) Clear() {
	m.mu.Lock()
	m.entries = nil
	m.sorted = nil
	m.dirty = false
	m.mu.Unlock()
	m.pins.Clear()
	m.notify()
}

// Subscribe returns a coalesced buffer-changed signal: at most one
// notification is pending regardless of how many admissions occurred
// since the subscriber last drained it.
func (m *Mux) Subscribe() (<-chan struct{}, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subSeq++
	id := m.subSeq
	ch := make(chan struct{}, 1)
	m.subs[id] = ch
	return ch, func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Mux) notify() {
	m.subMu.Lock()
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	m.subMu.Unlock()
}
