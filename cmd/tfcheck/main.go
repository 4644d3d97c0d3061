package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jo-hoe/tfcheck/internal/core"
	"github.com/jo-hoe/tfcheck/internal/metrics"
	"github.com/jo-hoe/tfcheck/internal/progress"
	"github.com/jo-hoe/tfcheck/internal/status"
	"github.com/jo-hoe/tfcheck/internal/validator"
	"golang.org/x/sync/errgroup"
)

func getConfigPath() (string, bool) {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath, true
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml"), false
}

func loadConfig() (*core.ServiceConfig, error) {
	configPath, explicit := getConfigPath()
	if explicit {
		return core.LoadConfig(configPath)
	}
	return core.LoadConfigOrDefault(configPath)
}

func main() {
	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [pattern]\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		config.Pattern = os.Args[1]
	}

	slog.SetDefault(core.NewLogger(os.Stderr, config.LogLevel, config.LogFormat))

	if err := run(config); err != nil {
		slog.Error("tfcheck failed", "error", err)
		os.Exit(1)
	}
}

func run(config *core.ServiceConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	m := metrics.New()
	tracker := validator.NewTracker(m, progress.New(os.Stderr, config.Progress))

	var server *status.Server
	if config.StatusPort > 0 {
		server = status.NewServer(config.StatusPort, runID, tracker, m)
	}

	g, ctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(server.Start)
	}

	var stats validator.Stats
	g.Go(func() error {
		var err error
		stats, err = validator.Run(ctx, config, validator.Options{Tracker: tracker})

		if server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if serr := server.Shutdown(shutdownCtx); serr != nil {
				slog.Warn("StatusServer: shutdown error", "error", serr)
			}
		}
		return err
	})

	err := g.Wait()
	logSummary(runID, stats)
	return err
}

func logSummary(runID string, stats validator.Stats) {
	slog.Info("tfcheck: done", append([]any{"run_id", runID}, stats.SummaryAttrs()...)...)
}
