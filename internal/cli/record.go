package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/runnerr0/journey/internal/aggregate"
	"github.com/runnerr0/journey/internal/extract"
	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/summarize"
)

// Execute implements the go-flags Commander interface for RecordCommand.
func (c *RecordCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for record command")
	}

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

// executeWithStore runs the record logic against a provided store (used by tests).
func (c *RecordCommand) executeWithStore(store *journal.Store, summarizer summarize.Summarizer) error {
	parsed, err := url.ParseRequestURI(c.URL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s", c.URL)
	}

	content, err := c.buildContent(parsed.Hostname())
	if err != nil {
		return err
	}

	agg := aggregate.New(store, summarizer, quietLogger())

	ctx := context.Background()
	if err := agg.RecordVisit(ctx, content); err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}

	data, err := store.Get(ctx)
	if err != nil {
		return fmt.Errorf("reading back record: %w", err)
	}
	record := data.Bucket(journal.DayKey(content.Timestamp))[c.URL]

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	fmt.Printf("Recorded %s (%s)\n", record.URL, record.Timestamp.Format(time.RFC3339))
	fmt.Printf("  Title: %s\n", record.Title)
	fmt.Printf("  Content: %d chars\n", record.ContentLength)
	fmt.Printf("  Summary: %s\n", record.Summary())

	return nil
}

// buildContent assembles the extracted content for the visit from the
// flag combination: --html-file runs the extractor, --content/--content-file
// accept pre-extracted text.
func (c *RecordCommand) buildContent(domain string) (extract.Content, error) {
	if c.HTMLFile != "" && (c.Content != "" || c.ContentFile != "") {
		return extract.Content{}, fmt.Errorf("--html-file and --content/--content-file are mutually exclusive")
	}
	if c.Content != "" && c.ContentFile != "" {
		return extract.Content{}, fmt.Errorf("--content and --content-file are mutually exclusive")
	}

	if c.HTMLFile != "" {
		f, err := os.Open(c.HTMLFile)
		if err != nil {
			return extract.Content{}, fmt.Errorf("reading html file: %w", err)
		}
		defer f.Close()

		doc, err := extract.ParseHTML(f)
		if err != nil {
			return extract.Content{}, fmt.Errorf("parsing html: %w", err)
		}

		content := extract.New().Extract(doc, c.URL)
		if c.Title != "" {
			content.Title = c.Title
		}
		return content, nil
	}

	text := c.Content
	if c.ContentFile != "" {
		data, err := os.ReadFile(c.ContentFile)
		if err != nil {
			return extract.Content{}, fmt.Errorf("reading content file: %w", err)
		}
		text = string(data)
	}

	return extract.Content{
		Title:   c.Title,
		Content: extract.CleanText(text),
		Metadata: extract.Metadata{
			URL:    c.URL,
			Domain: domain,
		},
		Timestamp: time.Now(),
	}, nil
}
