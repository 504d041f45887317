package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/retention"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	DatabasePath      string `json:"database_path"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	PagesToday        int    `json:"pages_today"`
	ArchivedDays      int    `json:"archived_days"`
	OldestArchive     string `json:"oldest_archive,omitempty"`
	NewestArchive     string `json:"newest_archive,omitempty"`
	NextReset         string `json:"next_reset"`
	DaemonRunning     bool   `json:"daemon_running"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store := c.store
	dbPath := c.dbPath
	host, port := "127.0.0.1", 0
	resetHour := retention.DefaultResetHour

	if store == nil {
		cfg, err := loadConfig(c.globals)
		if err != nil {
			return err
		}
		opened, db, path, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		defer opened.Close()
		store = opened
		dbPath = path
		host, port = cfg.Daemon.Host, cfg.Daemon.Port
		resetHour = cfg.Retention.ResetHour
	}

	return c.executeWithStore(store, dbPath, host, port, resetHour)
}

// executeWithStore runs status against a provided store (used by tests).
func (c *StatusCommand) executeWithStore(store *journal.Store, dbPath, host string, port int, resetHour int) error {
	ctx := context.Background()

	data, err := store.Get(ctx)
	if err != nil {
		return fmt.Errorf("reading journey data: %w", err)
	}

	now := time.Now()
	today := journal.DayKey(now)
	pagesToday := len(data.VisitedPages[today])

	archiveKeys := make([]string, 0, len(data.ArchivedDays))
	for day := range data.ArchivedDays {
		archiveKeys = append(archiveKeys, day)
	}
	sort.Strings(archiveKeys)

	scheduler := retention.NewScheduler(store, resetHour, quietLogger())
	nextReset := scheduler.NextResetInstant(now)

	var dbSize int64
	if info, statErr := os.Stat(dbPath); statErr == nil {
		dbSize = info.Size()
	}

	daemonRunning := port > 0 && checkDaemon(host, port)

	if c.globals != nil && c.globals.JSON {
		out := statusJSON{
			Version:           c.version,
			DatabasePath:      dbPath,
			DatabaseSizeBytes: dbSize,
			PagesToday:        pagesToday,
			ArchivedDays:      len(archiveKeys),
			NextReset:         nextReset.Format(time.RFC3339),
			DaemonRunning:     daemonRunning,
		}
		if len(archiveKeys) > 0 {
			out.OldestArchive = archiveKeys[0]
			out.NewestArchive = archiveKeys[len(archiveKeys)-1]
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Journey Status")
	fmt.Println("==============")
	fmt.Printf("Version:        %s\n", c.version)
	fmt.Printf("Database:       %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Pages today:    %d\n", pagesToday)
	fmt.Printf("Archived days:  %d\n", len(archiveKeys))
	if len(archiveKeys) > 0 {
		fmt.Printf("Archive range:  %s .. %s\n", archiveKeys[0], archiveKeys[len(archiveKeys)-1])
	}
	fmt.Printf("Next reset:     %s\n", nextReset.Format(time.RFC3339))

	if daemonRunning {
		fmt.Println("Daemon:         running")
	} else {
		fmt.Println("Daemon:         not running")
	}

	return nil
}
