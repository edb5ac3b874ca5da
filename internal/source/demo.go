package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Demo emits synthetic service lines so the dashboard works with no
// real services attached.
type Demo struct {
	name     string
	interval time.Duration
}

var demoMessages = []string{
	"request handled path=/healthz status=200",
	"DEBUG cache refresh complete",
	"worker heartbeat ok",
	"WARN slow query took 512ms",
	"ERROR upstream timeout after 3 retries",
	"listening on :8080",
	"connection accepted",
}

func NewDemo(name string, interval time.Duration) *Demo {
	if interval <= 0 {
		interval = 700 * time.Millisecond
	}
	return &Demo{name: name, interval: interval}
}

func (d *Demo) Name() string { return d.name }

func (d *Demo) FetchTail(_ context.Context, maxLines int) ([]string, error) {
	n := maxLines
	if n > 20 {
		n = 20
	}
	now := time.Now()
	lines := make([]string, 0, n)
	for i := n; i > 0; i-- {
		ts := now.Add(-time.Duration(i) * time.Second)
		lines = append(lines, demoLine(ts))
	}
	return lines, nil
}

func (d *Demo) Subscribe(ctx context.Context, onLine func(string)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-subCtx.Done():
				return
			case <-ticker.C:
				onLine(demoLine(time.Now()))
			}
		}
	}()
	return func() { cancel(); <-done }, nil
}

func demoLine(ts time.Time) string {
	return fmt.Sprintf("%s %s", ts.Format("2006-01-02 15:04:05"), demoMessages[rand.Intn(len(demoMessages))])
}
