package source

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Docker reads container logs by shelling out to the container
// runtime CLI. This is the same surface the runtime exposes to users
// (`docker logs --tail` / `--follow`) and works unchanged for podman
// and nerdctl.
type Docker struct {
	name      string
	container string
	command   string
}

func NewDocker(name, container, command string) *Docker {
	if command == "" {
		command = "docker"
	}
	return &Docker{name: name, container: container, command: command}
}

func (d *Docker) Name() string { return d.name }

// FetchTail pulls the last maxLines from the container, stdout and
// stderr combined.
func (d *Docker) FetchTail(ctx context.Context, maxLines int) ([]string, error) {
	cmd := exec.CommandContext(ctx, d.command, "logs", "--tail", strconv.Itoa(maxLines), d.container)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s logs %s: %w", d.command, d.container, err)
	}
	return splitLines(string(out)), nil
}

// Subscribe attaches `logs --follow --tail 0` and forwards each
// scanned line. The returned unsubscribe kills the child process and
// waits for the pump goroutine, so onLine is never called afterwards.
func (d *Docker) Subscribe(ctx context.Context, onLine func(string)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(subCtx, d.command, "logs", "--follow", "--tail", "0", d.container)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%s logs --follow %s: %w", d.command, d.container, err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			if subCtx.Err() != nil {
				return
			}
			onLine(sc.Text())
		}
	}()
	unsub := func() {
		cancel()
		<-done
		_ = cmd.Wait()
	}
	return unsub, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(strings.TrimRight(s, "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		out = append(out, strings.TrimRight(l, "\r"))
	}
	return out
}
