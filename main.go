package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/timeledger/internal/chime"
	"github.com/sadopc/timeledger/internal/config"
	"github.com/sadopc/timeledger/internal/log"
	"github.com/sadopc/timeledger/internal/store"
	"github.com/sadopc/timeledger/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logFile, err := log.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := log.New(log.Config{Level: level, Output: logFile})
	log.SetDefault(logger)
	logger.Info("starting",
		log.FieldPath, cfg.DBPath,
		"chime", cfg.ChimeEnabled,
		"chime_interval", cfg.ChimeInterval.String())

	s, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Error("open database failed", log.FieldError, err, log.FieldPath, cfg.DBPath)
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()
	s.SetLogger(logger)

	var notifier chime.Notifier = chime.Silent{}
	if cfg.ChimeEnabled {
		notifier = chime.NewDesktopNotifier(logger)
	}

	app := tui.NewApp(s, tui.Options{
		ExportDir:     cfg.ExportDir,
		ChimeEnabled:  cfg.ChimeEnabled,
		ChimeInterval: cfg.ChimeInterval,
		Notifier:      notifier,
		Logger:        logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			p.Quit()
		case <-done:
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("program failed", log.FieldError, err)
		return err
	}
	logger.Info("stopped")
	return nil
}
