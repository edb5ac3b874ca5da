package stream

import (
	"testing"
	"time"

	"logdeck/internal/model"
)

func entryAt(src string, ts time.Time, msg string) model.LogEntry {
	return model.LogEntry{Source: src, Timestamp: ts, Severity: model.SeverityInfo, Message: msg}
}

func TestMuxSnapshotOrdering(t *testing.T) {
	m := NewMux(100, NewPinRegistry())
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// A burst with older timestamps admitted after newer ones.
	m.Admit([]model.LogEntry{entryAt("api", base.Add(5*time.Second), "e")})
	m.Admit([]model.LogEntry{
		entryAt("db", base, "a"),
		entryAt("db", base.Add(2*time.Second), "c"),
	})
	m.Admit([]model.LogEntry{entryAt("api", base.Add(1*time.Second), "b")})

	snap := m.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("len: %d", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		prev, cur := snap[i-1], snap[i]
		if cur.Timestamp.Before(prev.Timestamp) {
			t.Fatalf("timestamps regress at %d", i)
		}
		if cur.Timestamp.Equal(prev.Timestamp) && cur.ID < prev.ID {
			t.Fatalf("id tiebreak violated at %d", i)
		}
	}
	if snap[0].Message != "a" || snap[3].Message != "e" {
		t.Fatalf("order: %v", snap)
	}
}

func TestMuxTimestampTiesBreakByID(t *testing.T) {
	m := NewMux(10, NewPinRegistry())
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	m.Admit([]model.LogEntry{entryAt("api", ts, "first"), entryAt("api", ts, "second")})
	snap := m.Snapshot()
	if snap[0].Message != "first" || snap[1].Message != "second" {
		t.Fatalf("tie order: %q, %q", snap[0].Message, snap[1].Message)
	}
	if snap[0].ID >= snap[1].ID {
		t.Fatalf("ids not strictly increasing: %d, %d", snap[0].ID, snap[1].ID)
	}
}

func TestMuxCapacityEviction(t *testing.T) {
	m := NewMux(10, NewPinRegistry())
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		m.Admit([]model.LogEntry{entryAt("api", ts.Add(time.Duration(i)*time.Second), "x")})
	}
	if m.Len() != 10 {
		t.Fatalf("len: %d", m.Len())
	}
	snap := m.Snapshot()
	// The 10 most recent admissions survive: ids 6..15.
	if snap[0].ID != 6 || snap[len(snap)-1].ID != 15 {
		t.Fatalf("retained ids %d..%d", snap[0].ID, snap[len(snap)-1].ID)
	}
}

func TestMuxPinExemptFromEviction(t *testing.T) {
	pins := NewPinRegistry()
	m := NewMux(10, pins)
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	m.Admit([]model.LogEntry{entryAt("api", ts, "keep me")})
	pins.Toggle(1)
	for i := 1; i <= 10; i++ {
		m.Admit([]model.LogEntry{entryAt("api", ts.Add(time.Duration(i)*time.Second), "x")})
	}
	if m.Len() != 10 {
		t.Fatalf("len: %d", m.Len())
	}
	found := false
	for _, e := range m.Snapshot() {
		if e.ID == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("pinned entry evicted")
	}
}

func TestMuxAllPinnedOverflows(t *testing.T) {
	pins := NewPinRegistry()
	m := NewMux(2, pins)
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	m.Admit([]model.LogEntry{entryAt("api", ts, "a"), entryAt("api", ts, "b")})
	pins.Toggle(1)
	pins.Toggle(2)
	m.Admit([]model.LogEntry{entryAt("api", ts.Add(time.Second), "c")})
	// No error, no pinned loss: the buffer overflows transiently.
	if m.Len() != 3 {
		t.Fatalf("len: %d", m.Len())
	}
}

func TestMuxClearReleasesPins(t *testing.T) {
	pins := NewPinRegistry()
	m := NewMux(10, pins)
	m.Admit([]model.LogEntry{entryAt("api", time.Now(), "a")})
	pins.Toggle(1)
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("buffer not empty")
	}
	if pins.Len() != 0 {
		t.Fatalf("pins survived clear")
	}
	// IDs keep increasing across a clear; identity is never reused.
	m.Admit([]model.LogEntry{entryAt("api", time.Now(), "b")})
	if got := m.Snapshot()[0].ID; got != 2 {
		t.Fatalf("id after clear: %d", got)
	}
}

func TestMuxNotifyCoalesces(t *testing.T) {
	m := NewMux(10, NewPinRegistry())
	ch, cancel := m.Subscribe()
	defer cancel()

	m.Admit([]model.LogEntry{
		entryAt("api", time.Now(), "a"),
		entryAt("api", time.Now(), "b"),
		entryAt("api", time.Now(), "c"),
	})
	m.Admit([]model.LogEntry{entryAt("api", time.Now(), "d")})

	// Batches coalesce into a single pending signal.
	select {
	case <-ch:
	default:
		t.Fatalf("no notification pending")
	}
	select {
	case <-ch:
		t.Fatalf("more than one notification pending")
	default:
	}
}

func TestPinToggleIdempotent(t *testing.T) {
	p := NewPinRegistry()
	if !p.Toggle(7) {
		t.Fatalf("first toggle should pin")
	}
	if p.Toggle(7) {
		t.Fatalf("second toggle should unpin")
	}
	if p.Pinned(7) {
		t.Fatalf("still pinned")
	}
}
