package stream

import (
	"sync"
	"time"
)

type dedupKey struct {
	ts   int64
	line string
}

// dedupWindow guards the historical-fetch to live-tail handoff for
// one source. The live feed has no notion of "since when" and may
// re-deliver lines the last historical pull already captured; a live
// candidate whose (timestamp, line) pair was seen historically and
// whose timestamp is not newer than the source's watermark is a
// duplicate, not an error. The window is spent the moment the feed
// produces a line newer than the watermark, so it never grows past
// one fetch and never suppresses legitimately repeated later lines.
type dedupWindow struct {
	mu   sync.Mutex
	seen map[dedupKey]struct{}
}

func newDedupWindow() *dedupWindow {
	return &dedupWindow{seen: make(map[dedupKey]struct{})}
}

// record remembers one historical line. Historical entries are always
// admitted; recording only arms the window for the live phase.
func (w *dedupWindow) record(line string, ts time.Time) {
	w.mu.Lock()
	w.seen[dedupKey{ts.Unix(), line}] = struct{}{}
	w.mu.Unlock()
}

// shouldAdmit reports whether a live-mode candidate passes the window.
func (w *dedupWindow) shouldAdmit(line string, ts time.Time, watermark time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ts.After(watermark) {
		// The overlap with the historical tail is over.
		w.seen = make(map[dedupKey]struct{})
		return true
	}
	if _, dup := w.seen[dedupKey{ts.Unix(), line}]; dup {
		return false
	}
	return true
}

func (w *dedupWindow) reset() {
	w.mu.Lock()
	w.seen = make(map[dedupKey]struct{})
	w.mu.Unlock()
}
