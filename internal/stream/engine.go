package stream

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"logdeck/internal/analytics"
	"logdeck/internal/export"
	"logdeck/internal/filter"
	"logdeck/internal/model"
	"logdeck/internal/source"
)

// DefaultTailLines is how much history each activation pulls.
const DefaultTailLines = 200

type Options struct {
	Capacity  int // canonical buffer bound, DefaultCapacity when <= 0
	TailLines int // historical fetch depth, DefaultTailLines when <= 0
}

// Engine wires the multiplexer, the per-service channels, and the
// current filter into the surface the Logs view consumes. Construct
// one per active session or view; there is no ambient singleton.
type Engine struct {
	mux       *Mux
	pins      *PinRegistry
	tailLines int

	mu       sync.Mutex
	sources  map[string]source.Source
	channels map[string]*SourceChannel
	criteria filter.Criteria
}

func NewEngine(sources []source.Source, opts Options) *Engine {
	pins := NewPinRegistry()
	tl := opts.TailLines
	if tl <= 0 {
		tl = DefaultTailLines
	}
	e := &Engine{
		mux:       NewMux(opts.Capacity, pins),
		pins:      pins,
		tailLines: tl,
		sources:   make(map[string]source.Source),
		channels:  make(map[string]*SourceChannel),
	}
	for _, s := range sources {
		e.sources[s.Name()] = s
	}
	return e
}

// SourceNames returns all configured service names, sorted.
func (e *Engine) SourceNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.sources))
	for n := range e.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetActiveServices reconciles running channels against the wanted
// set. Channels being deactivated are stopped, which unsubscribes
// their live feed before the channel is dropped. Each activation
// fetches independently; one slow or failing source never blocks the
// others. Unknown names are ignored.
func (e *Engine) SetActiveServices(ctx context.Context, names []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var stop, start []*SourceChannel
	e.mu.Lock()
	for name, ch := range e.channels {
		if !want[name] {
			stop = append(stop, ch)
			delete(e.channels, name)
		}
	}
	for name := range want {
		if _, running := e.channels[name]; running {
			continue
		}
		src, ok := e.sources[name]
		if !ok {
			continue
		}
		ch := newSourceChannel(src, e.mux, e.tailLines)
		e.channels[name] = ch
		start = append(start, ch)
	}
	e.mu.Unlock()
	for _, ch := range stop {
		ch.Stop()
	}
	for _, ch := range start {
		go ch.Start(ctx)
	}
}

func (e *Engine) SetFilter(c filter.Criteria) {
	e.mu.Lock()
	e.criteria = c
	e.mu.Unlock()
}

func (e *Engine) Filter() filter.Criteria {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.criteria
}

// Snapshot returns the filtered, time-ordered view. A non-nil error
// is the distinct invalid-filter state: a broken regex or expression
// matches nothing and is reported, never downgraded to substring
// search or conflated with zero results.
func (e *Engine) Snapshot() ([]model.LogEntry, error) {
	return filter.Apply(e.mux.Snapshot(), e.Filter())
}

// Clear empties the buffer, re-arms every channel's dedup window, and
// releases pins.
func (e *Engine) Clear() {
	e.mu.Lock()
	chans := make([]*SourceChannel, 0, len(e.channels))
	for _, ch := range e.channels {
		chans = append(chans, ch)
	}
	e.mu.Unlock()
	for _, ch := range chans {
		ch.resetDedup()
	}
	e.mux.Clear()
}

func (e *Engine) TogglePin(id uint64) bool { return e.pins.Toggle(id) }
func (e *Engine) Pinned(id uint64) bool    { return e.pins.Pinned(id) }
func (e *Engine) PinCount() int            { return e.pins.Len() }

// ExportAs renders the current filtered view. Formats: "text", "json".
func (e *Engine) ExportAs(format string) (string, error) {
	entries, err := e.Snapshot()
	if err != nil {
		return "", err
	}
	switch format {
	case "text":
		return export.ToText(entries), nil
	case "json":
		return export.ToJSON(entries)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// Buckets aggregates the current filtered view for the histogram. An
// invalid filter yields no buckets, consistent with the empty view.
func (e *Engine) Buckets(width time.Duration) []analytics.Bucket {
	entries, err := e.Snapshot()
	if err != nil {
		return nil
	}
	return analytics.Bucketize(entries, width, analytics.DefaultMaxBuckets)
}

// Subscribe returns the coalesced buffer-changed signal (at most one
// pending notification per admission batch) and its cancel.
func (e *Engine) Subscribe() (<-chan struct{}, func()) { return e.mux.Subscribe() }

// Status reports per-source failure text; healthy sources are absent.
func (e *Engine) Status() map[string]string {
	out := make(map[string]string)
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, ch := range e.channels {
		if err := ch.Err(); err != nil {
			out[name] = err.Error()
		}
	}
	return out
}

// BufferLen reports the canonical (unfiltered) buffer size.
func (e *Engine) BufferLen() int { return e.mux.Len() }

// Close stops every channel, unsubscribing live feeds.
func (e *Engine) Close() {
	e.mu.Lock()
	chans := make([]*SourceChannel, 0, len(e.channels))
	for name, ch := range e.channels {
		chans = append(chans, ch)
		delete(e.channels, name)
	}
	e.mu.Unlock()
	for _, ch := range chans {
		ch.Stop()
	}
}
