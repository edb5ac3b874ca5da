// loggen writes synthetic per-service log files so the file source
// can be demoed without real services:
//
//	loggen --services api,worker,db --dir simulateddata --rate 5
//
// pairs with a manifest whose services point at the generated files.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

var messages = []struct {
	text   string
	weight int
}{
	{"request handled status=200", 40},
	{"connection accepted", 20},
	{"DEBUG cache refresh complete", 15},
	{"worker heartbeat ok", 10},
	{"WARN slow query took 512ms", 8},
	{"ERROR upstream timeout after 3 retries", 5},
	{"FATAL out of file descriptors", 2},
}

func pick() string {
	total := 0
	for _, m := range messages {
		total += m.weight
	}
	n := rand.Intn(total)
	for _, m := range messages {
		if n < m.weight {
			return m.text
		}
		n -= m.weight
	}
	return messages[0].text
}

func main() {
	var (
		servicesCSV string
		dir         string
		rate        float64
		durationStr string
	)
	flag.StringVar(&servicesCSV, "services", "api,worker,db", "comma-separated service names, one log file each")
	flag.StringVar(&dir, "dir", "simulateddata", "output directory")
	flag.Float64Var(&rate, "rate", 5.0, "lines per second per service")
	flag.StringVar(&durationStr, "duration", "", "optional run duration (e.g. 30s, 2m); empty runs until interrupted")
	flag.Parse()

	if rate <= 0 {
		fmt.Fprintln(os.Stderr, "rate must be positive")
		os.Exit(1)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "mkdir:", err)
		os.Exit(1)
	}

	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(abort)
	}()
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad duration:", err)
			os.Exit(1)
		}
		go func() {
			select {
			case <-time.After(d):
				close(abort)
			case <-abort:
			}
		}()
	}

	var wg sync.WaitGroup
	for _, name := range strings.Split(servicesCSV, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := generate(name, filepath.Join(dir, name+".log"), rate, abort); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			}
		}(name)
	}
	wg.Wait()
}

func generate(service, path string, rate float64, abort <-chan struct{}) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	interval := time.Duration(float64(time.Second) / rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-abort:
			return nil
		case t := <-ticker.C:
			line := fmt.Sprintf("%s [%s] %s\n", t.Format("2006-01-02 15:04:05"), service, pick())
			if _, err := f.WriteString(line); err != nil {
				return err
			}
		}
	}
}
