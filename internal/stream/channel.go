package stream

import (
	"context"
	"sort"
	"sync"
	"time"

	"logdeck/internal/model"
	"logdeck/internal/parse"
	"logdeck/internal/source"
	"logdeck/internal/util/logx"
)

// ChannelState tracks the per-service ingestion lifecycle.
type ChannelState int

const (
	StateIdle ChannelState = iota
	StateHistoricalFetch
	StateStreaming
	StateStopped
)

func (s ChannelState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHistoricalFetch:
		return "historical-fetch"
	case StateStreaming:
		return "streaming"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// SourceChannel drives one service through the historical fetch and
// the handoff to live streaming. It owns that source's watermark (the
// newest timestamp it has admitted) and dedup window. Entries are
// handed to the multiplexer in batches; the channel never touches the
// shared buffer directly and holds no lock on it while the external
// fetch or subscribe calls are in flight.
type SourceChannel struct {
	name      string
	src       source.Source
	mux       *Mux
	tailLines int

	mu        sync.Mutex
	state     ChannelState
	watermark time.Time
	window    *dedupWindow
	unsub     func()
	lastErr   error
}

func newSourceChannel(src source.Source, mux *Mux, tailLines int) *SourceChannel {
	return &SourceChannel{
		name:      src.Name(),
		src:       src,
		mux:       mux,
		tailLines: tailLines,
		window:    newDedupWindow(),
	}
}

func (c *SourceChannel) Name() string { return c.name }

func (c *SourceChannel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SourceChannel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Start runs the historical fetch and then attaches the live feed.
// Safe to call again after Stop: re-activation begins a fresh
// historical fetch. A failed fetch only skips history for this source
// (reported via Err); streaming is still attempted. A failed
// subscribe leaves the channel stopped until the next explicit
// activation, deliberately not retrying in a loop.
func (c *SourceChannel) Start(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateHistoricalFetch || c.state == StateStreaming {
		c.mu.Unlock()
		return
	}
	c.state = StateHistoricalFetch
	c.lastErr = nil
	c.window.reset()
	c.mu.Unlock()

	lines, err := c.src.FetchTail(ctx, c.tailLines)
	if err != nil {
		logx.Warnf("channel %s: historical fetch failed: %v", c.name, err)
		c.setErr(err)
		lines = nil
	}

	now := time.Now()
	batch := make([]model.LogEntry, 0, len(lines))
	for _, line := range lines {
		if e, ok := parse.Parse(c.name, line, now); ok {
			batch = append(batch, e)
		}
	}
	// Per-source local order before admission; cross-source
	// interleaving is resolved by the buffer's global sort.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Timestamp.Before(batch[j].Timestamp)
	})

	c.mu.Lock()
	if c.state != StateHistoricalFetch {
		// Stopped while fetching; drop the batch.
		c.mu.Unlock()
		return
	}
	for _, e := range batch {
		c.window.record(e.Message, e.Timestamp)
		if e.Timestamp.After(c.watermark) {
			c.watermark = e.Timestamp
		}
	}
	c.mu.Unlock()
	if len(batch) > 0 {
		c.mux.Admit(batch)
	}

	unsub, err := c.src.Subscribe(ctx, c.onLive)
	if err != nil {
		logx.Warnf("channel %s: subscribe failed: %v", c.name, err)
		c.setErr(err)
		c.mu.Lock()
		c.state = StateStopped
		c.mu.Unlock()
		return
	}
	c.mu.Lock()
	if c.state != StateHistoricalFetch {
		// Stopped while subscribing; tear the fresh feed down.
		c.mu.Unlock()
		unsub()
		return
	}
	c.unsub = unsub
	c.state = StateStreaming
	c.mu.Unlock()
	logx.Debugf("channel %s: streaming (watermark=%s)", c.name, c.watermark.Format(model.TimeLayout))
}

// onLive handles one pushed line: parse, dedup against the historical
// tail, then admit individually.
func (c *SourceChannel) onLive(line string) {
	e, ok := parse.Parse(c.name, line, time.Now())
	if !ok {
		return
	}
	c.mu.Lock()
	if c.state != StateStreaming && c.state != StateHistoricalFetch {
		c.mu.Unlock()
		return
	}
	admit := c.window.shouldAdmit(e.Message, e.Timestamp, c.watermark)
	if admit && e.Timestamp.After(c.watermark) {
		c.watermark = e.Timestamp
	}
	c.mu.Unlock()
	if admit {
		c.mux.Admit([]model.LogEntry{e})
	}
}

// Stop detaches the live feed and waits for it. The unsubscribe runs
// before the channel can be discarded, so a dangling feed never calls
// into a disposed multiplexer.
func (c *SourceChannel) Stop() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.state = StateStopped
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (c *SourceChannel) resetDedup() {
	c.window.reset()
}

func (c *SourceChannel) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
