package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nxadm/tail"
)

// tailBlockBytes bounds how far back FetchTail reads; large log files
// stay cheap because only the trailing block is scanned.
const tailBlockBytes = 1 << 20

// File reads service output from a plain log file.
type File struct {
	name string
	path string
}

func NewFile(name, path string) *File { return &File{name: name, path: path} }

func (f *File) Name() string { return f.name }

// FetchTail returns up to maxLines of the newest lines in the file.
func (f *File) FetchTail(ctx context.Context, maxLines int) ([]string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fh.Close()

	var start int64
	if st, err := fh.Stat(); err == nil && st.Size() > tailBlockBytes {
		start = st.Size() - tailBlockBytes
	}
	if start > 0 {
		if _, err := fh.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
	}
	r := bufio.NewReader(fh)
	if start > 0 {
		// Drop the partial first line.
		if _, err := r.ReadString('\n'); err != nil && err != io.EOF {
			return nil, err
		}
	}
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// Subscribe follows the file from its current end, surviving rotation
// via polling re-open.
func (f *File) Subscribe(ctx context.Context, onLine func(string)) (func(), error) {
	t, err := tail.TailFile(f.path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		return nil, fmt.Errorf("tail %s: %w", f.path, err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				if l.Err != nil {
					continue
				}
				onLine(l.Text)
			}
		}
	}()
	unsub := func() {
		_ = t.Stop()
		<-done
		t.Cleanup()
	}
	return unsub, nil
}
