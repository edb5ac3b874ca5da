package stream

import (
	"testing"
	"time"
)

func TestDedupRejectsHistoricalOverlap(t *testing.T) {
	w := newDedupWindow()
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	w.record("A", ts)
	w.record("B", ts)

	if w.shouldAdmit("A", ts, ts) {
		t.Fatalf("re-delivered historical line admitted")
	}
	if w.shouldAdmit("B", ts, ts) {
		t.Fatalf("re-delivered historical line admitted")
	}
}

func TestDedupAdmitsNewerAndSpendsWindow(t *testing.T) {
	w := newDedupWindow()
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	w.record("A", ts)

	if !w.shouldAdmit("C", ts.Add(time.Second), ts) {
		t.Fatalf("newer live line rejected")
	}
	// The window is spent once a newer line passed; an identical later
	// repeat of A at a newer timestamp is legitimate.
	if !w.shouldAdmit("A", ts, ts) {
		t.Fatalf("window not cleared after newer admission")
	}
}

func TestDedupAdmitsUnseenAtWatermark(t *testing.T) {
	w := newDedupWindow()
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	w.record("A", ts)

	// Same timestamp but never seen historically: not a duplicate.
	if !w.shouldAdmit("D", ts, ts) {
		t.Fatalf("unseen line rejected")
	}
}
