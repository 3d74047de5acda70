package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/celebration"
	"github.com/sandeepkv93/freedom/internal/config"
	"github.com/sandeepkv93/freedom/internal/countdown"
	"github.com/sandeepkv93/freedom/internal/logger"
	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/scheduler"
	"github.com/sandeepkv93/freedom/internal/speech"
	"github.com/sandeepkv93/freedom/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "freedom failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	countdownCfg := model.DefaultCountdownConfig()

	speaker := speech.NewSpeaker(cfg.SpeechBackend, log.Named("speech"))
	if closer, ok := speaker.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	announcer := speech.NewAnnouncer(speaker, log)
	announcer.SetMuted(!cfg.VoiceEnabled)

	celebrationCfg := celebration.ConfigFrom(countdownCfg)
	engine := scheduler.NewEngine(celebrationCfg.BurstSize*2, log.Named("engine"))
	sequencer := celebration.New(celebrationCfg, engine, announcer, log.Named("celebration"))
	defer sequencer.Stop()

	clock := countdown.New(countdownCfg, announcer, sequencer, countdown.Options{Logger: log.Named("countdown")})
	defer clock.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(update.Deps{
		Clock:          clock,
		Celebration:    sequencer,
		Voice:          announcer,
		Notifier:       notifier,
		DesktopEnabled: cfg.DesktopNotifications,
		EventBuffer:    cfg.EventBuffer,
		Logger:         log.Named("ui"),
	})

	if err := clock.Start(ctx); err != nil {
		return fmt.Errorf("start countdown: %w", err)
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	log.Info("shutting down", zap.Bool("signal", ctx.Err() != nil))
	return nil
}
