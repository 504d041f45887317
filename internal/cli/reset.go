package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/retention"
)

// Execute implements the go-flags Commander interface for ResetCommand.
func (c *ResetCommand) Execute(args []string) error {
	now := time.Now()
	if c.At != "" {
		parsed, err := time.Parse(time.RFC3339, c.At)
		if err != nil {
			return fmt.Errorf("invalid --at time %q: %w", c.At, err)
		}
		now = parsed
	}

	store := c.store
	resetHour := retention.DefaultResetHour
	if store == nil {
		cfg, err := loadConfig(c.globals)
		if err != nil {
			return err
		}
		opened, db, _, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		defer opened.Close()
		store = opened
		resetHour = cfg.Retention.ResetHour
	}

	return c.executeWithStore(store, resetHour, now)
}

// executeWithStore runs the reset against a provided store (used by tests).
func (c *ResetCommand) executeWithStore(store *journal.Store, resetHour int, now time.Time) error {
	ctx := context.Background()

	scheduler := retention.NewScheduler(store, resetHour, quietLogger())
	if err := scheduler.MaybeReset(ctx, now); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	data, err := store.Get(ctx)
	if err != nil {
		return fmt.Errorf("reading journey data: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"reset":         true,
			"archived_days": len(data.ArchivedDays),
			"next_reset":    scheduler.NextResetInstant(now).Format(time.RFC3339),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Reset complete.")
	fmt.Printf("  Archived days: %d\n", len(data.ArchivedDays))
	fmt.Printf("  Next reset:    %s\n", scheduler.NextResetInstant(now).Format(time.RFC3339))

	return nil
}
