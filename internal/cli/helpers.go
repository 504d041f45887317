package cli

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/journey/internal/config"
	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/summarize"
)

// loadConfig resolves the config for a command: the --config path when
// given, otherwise the default path (created with defaults on first run).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// openStore opens the configured journey database, running migrations.
// The returned *sql.DB must be closed after the store.
func openStore(cfg *config.Config) (*journal.Store, *sql.DB, string, error) {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, nil, "", fmt.Errorf("resolve db path: %w", err)
	}

	store, db, err := journal.Open(dbPath)
	if err != nil {
		return nil, nil, "", err
	}
	return store, db, dbPath, nil
}

// buildSummarizer constructs the configured summarizer capability.
// Disabled config or a missing API key degrades to fallback summaries.
func buildSummarizer(cfg *config.Config) summarize.Summarizer {
	if !cfg.Summarizer.Enabled {
		return summarize.Disabled{}
	}
	return summarize.NewAnthropic(
		cfg.APIKey(),
		cfg.Summarizer.Model,
		cfg.Summarizer.MaxTokens,
		cfg.Summarizer.Temperature,
	)
}

// newLogger builds a logrus logger from config, with --verbose forcing
// debug level.
func newLogger(cfg *config.Config, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

// quietLogger discards all output. Used by commands whose stdout is the
// product.
func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// checkDaemon attempts an HTTP GET to the daemon status endpoint.
// Returns true if the daemon responds within 1 second.
func checkDaemon(host string, port int) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s:%d/status", host, port))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
