package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/journey/internal/aggregate"
	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/summarize"
)

// Execute implements the go-flags Commander interface for TodayCommand.
func (c *TodayCommand) Execute(args []string) error {
	store := c.store
	summarizer := summarize.Summarizer(summarize.Disabled{})
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
		summarizer = buildSummarizer(cfg)
	}

	return c.executeWithStore(store, summarizer)
}

// executeWithStore runs the today logic against a provided store (used by tests).
func (c *TodayCommand) executeWithStore(store *journal.Store, summarizer summarize.Summarizer) error {
	agg := aggregate.New(store, summarizer, quietLogger())

	summary, err := agg.DailySummary(context.Background())
	if err != nil {
		return fmt.Errorf("building daily summary: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("Journey for %s\n", summary.Date)
	fmt.Printf("%s\n\n", summary.Summary)

	if summary.TotalPages == 0 {
		return nil
	}

	for _, page := range summary.Pages {
		if page.IsMain {
			fmt.Printf("%s  %s\n", page.Timestamp.Local().Format("15:04"), page.Domain)
			fmt.Printf("       %s\n", page.Title)
			if page.SubPageCount > 0 {
				fmt.Printf("       %d sub-pages\n", page.SubPageCount)
			}
		} else {
			fmt.Printf("%s    %s%s\n", page.Timestamp.Local().Format("15:04"), page.Domain, page.Path)
			fmt.Printf("         %s\n", page.Title)
		}
		if page.Summary != "" {
			fmt.Printf("       %s\n", page.Summary)
		}
	}

	return nil
}
