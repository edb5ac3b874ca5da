package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeSource is a scriptable source for channel tests. push delivers
// a live line to the current subscriber.
type fakeSource struct {
	name    string
	tail    []string
	tailErr error
	subErr  error

	mu         sync.Mutex
	onLine     func(string)
	fetchCalls int
	unsubbed   bool
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchTail(_ context.Context, _ int) ([]string, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	if f.tailErr != nil {
		return nil, f.tailErr
	}
	return f.tail, nil
}

func (f *fakeSource) Subscribe(_ context.Context, onLine func(string)) (func(), error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.mu.Lock()
	f.onLine = onLine
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubbed = true
		f.onLine = nil
		f.mu.Unlock()
	}, nil
}

func (f *fakeSource) push(line string) {
	f.mu.Lock()
	fn := f.onLine
	f.mu.Unlock()
	if fn != nil {
		fn(line)
	}
}

func newTestChannel(f *fakeSource) (*SourceChannel, *Mux) {
	mux := NewMux(100, NewPinRegistry())
	return newSourceChannel(f, mux, 200), mux
}

func TestChannelHistoricalThenLiveDedup(t *testing.T) {
	f := &fakeSource{name: "api", tail: []string{
		"2024-01-01 10:00:00 A",
		"2024-01-01 10:00:00 B",
	}}
	ch, mux := newTestChannel(f)
	ch.Start(context.Background())

	if got := ch.State(); got != StateStreaming {
		t.Fatalf("state: %s", got)
	}
	if mux.Len() != 2 {
		t.Fatalf("historical entries: %d", mux.Len())
	}

	// The live feed re-delivers A from the overlap window: dropped.
	f.push("2024-01-01 10:00:00 A")
	if mux.Len() != 2 {
		t.Fatalf("duplicate admitted, len=%d", mux.Len())
	}

	// A genuinely new line passes.
	f.push("2024-01-01 10:00:01 C")
	if mux.Len() != 3 {
		t.Fatalf("new live line not admitted, len=%d", mux.Len())
	}
}

func TestChannelFetchFailureStillStreams(t *testing.T) {
	f := &fakeSource{name: "api", tailErr: errors.New("boom")}
	ch, mux := newTestChannel(f)
	ch.Start(context.Background())

	if got := ch.State(); got != StateStreaming {
		t.Fatalf("state after failed fetch: %s", got)
	}
	if ch.Err() == nil {
		t.Fatalf("fetch failure not reported")
	}
	f.push("2024-01-01 10:00:00 live line")
	if mux.Len() != 1 {
		t.Fatalf("live line after failed fetch not admitted")
	}
}

func TestChannelSubscribeFailureStops(t *testing.T) {
	f := &fakeSource{name: "api", subErr: errors.New("no feed")}
	ch, _ := newTestChannel(f)
	ch.Start(context.Background())

	if got := ch.State(); got != StateStopped {
		t.Fatalf("state after failed subscribe: %s", got)
	}
	if ch.Err() == nil {
		t.Fatalf("subscribe failure not reported")
	}
}

func TestChannelStopUnsubscribesFirst(t *testing.T) {
	f := &fakeSource{name: "api"}
	ch, mux := newTestChannel(f)
	ch.Start(context.Background())
	ch.Stop()

	f.mu.Lock()
	unsubbed := f.unsubbed
	f.mu.Unlock()
	if !unsubbed {
		t.Fatalf("live feed not unsubscribed on stop")
	}
	if got := ch.State(); got != StateStopped {
		t.Fatalf("state: %s", got)
	}
	// Nothing can reach the mux through a stopped channel.
	ch.onLive("2024-01-01 10:00:00 late line")
	if mux.Len() != 0 {
		t.Fatalf("stopped channel admitted an entry")
	}
}

func TestChannelRestartFetchesFreshHistory(t *testing.T) {
	f := &fakeSource{name: "api", tail: []string{"2024-01-01 10:00:00 A"}}
	ch, _ := newTestChannel(f)
	ch.Start(context.Background())
	ch.Stop()
	ch.Start(context.Background())

	f.mu.Lock()
	calls := f.fetchCalls
	f.mu.Unlock()
	if calls != 2 {
		t.Fatalf("fetch calls: %d", calls)
	}
	if got := ch.State(); got != StateStreaming {
		t.Fatalf("state after restart: %s", got)
	}
}
