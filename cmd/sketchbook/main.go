package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sketchbook/internal/catalog"
	"github.com/jask/sketchbook/internal/config"
	"github.com/jask/sketchbook/internal/session"
	"github.com/jask/sketchbook/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()

	store, err := catalog.NewInMemory()
	if err != nil {
		log.Fatalf("scratch catalog: %v", err)
	}

	queue := session.NewQueue()
	app := tui.New(queue)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// The bridge: Program.Send is goroutine-safe, keeps send order, and
	// delivers on the program's own scheduling turn.
	actor := session.New(ctx, store, queue, session.NotifierFunc(func(n session.Notification) {
		p.Send(n)
	}), logger)

	done := make(chan struct{})
	go func() {
		actor.Run()
		close(done)
	}()

	if cfg.Catalog.Path != "" {
		queue.Send(session.Open{Path: cfg.Catalog.Path})
	}

	logger.Info("sketchbook started")
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}

	queue.Close()
	<-done
	logger.Info("sketchbook stopped")
}

// openLogger writes leveled logs to the configured file; the terminal
// belongs to the TUI.
func openLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return logger, func() { _ = f.Close() }, nil
}
