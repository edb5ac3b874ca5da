package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logdeck/internal/config"
	"logdeck/internal/source"
	"logdeck/internal/stream"
	"logdeck/internal/ui"
	"logdeck/internal/util/logx"
	"logdeck/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("logdeck", version.String())
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sources := make([]source.Source, 0, len(cfg.Services))
	for _, s := range cfg.Services {
		switch s.Kind {
		case config.KindDocker:
			sources = append(sources, source.NewDocker(s.Name, s.Container, s.Runtime))
		case config.KindFile:
			sources = append(sources, source.NewFile(s.Name, s.Path))
		case config.KindDemo:
			sources = append(sources, source.NewDemo(s.Name, 700*time.Millisecond))
		}
	}

	eng := stream.NewEngine(sources, stream.Options{
		Capacity:  cfg.Capacity,
		TailLines: cfg.TailLines,
	})

	logx.Infof("starting logdeck %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg, eng); err != nil {
		logx.Errorf("logdeck exited with error: %v", err)
		os.Exit(1)
	}
}
