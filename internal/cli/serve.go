package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/journey/internal/aggregate"
	"github.com/runnerr0/journey/internal/daemon"
	"github.com/runnerr0/journey/internal/retention"
)

// Execute implements the go-flags Commander interface for ServeCommand.
// It runs the ingest daemon and the retention scheduler until SIGINT or
// SIGTERM.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.Port != 0 {
		cfg.Daemon.Port = c.Port
	}

	log := newLogger(cfg, c.globals != nil && c.globals.Verbose)

	store, db, dbPath, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	defer store.Close()

	log.WithField("db", dbPath).Info("journey store ready")

	agg := aggregate.New(store, buildSummarizer(cfg), log)
	server := daemon.New(cfg.Daemon.Host, cfg.Daemon.Port, cfg.Daemon.MaxRequestSize, agg, store, log)
	scheduler := retention.NewScheduler(store, cfg.Retention.ResetHour, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go scheduler.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("daemon shutdown")
	}

	log.Info("journey daemon stopped")
	return nil
}
