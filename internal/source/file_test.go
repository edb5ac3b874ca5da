package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLines(t *testing.T, path string, n int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	for i := 0; i < n; i++ {
		fmt.Fprintf(f, "line %d\n", i)
	}
}

func TestFileFetchTailLastN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	writeLines(t, path, 10)

	s := NewFile("svc", path)
	lines, err := s.FetchTail(context.Background(), 4)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("lines: %d", len(lines))
	}
	if lines[0] != "line 6" || lines[3] != "line 9" {
		t.Fatalf("window: %v", lines)
	}
}

func TestFileFetchTailShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	writeLines(t, path, 2)

	s := NewFile("svc", path)
	lines, err := s.FetchTail(context.Background(), 200)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines: %d", len(lines))
	}
}

func TestFileFetchTailMissing(t *testing.T) {
	s := NewFile("svc", filepath.Join(t.TempDir(), "nope.log"))
	if _, err := s.FetchTail(context.Background(), 10); err == nil {
		t.Fatalf("missing file not reported")
	}
}

func TestFileSubscribeSeesAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	writeLines(t, path, 1)

	s := NewFile("svc", path)
	got := make(chan string, 16)
	unsub, err := s.Subscribe(context.Background(), func(line string) { got <- line })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	// Give the tailer a moment to seek to EOF before appending.
	time.Sleep(300 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	fmt.Fprintln(f, "appended line")
	f.Close()

	select {
	case line := <-got:
		if line != "appended line" {
			t.Fatalf("line: %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("appended line never delivered")
	}
}
