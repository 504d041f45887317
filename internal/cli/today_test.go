package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/journey/internal/aggregate"
	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/summarize"
)

// seedVisit writes a page record into today's bucket directly.
func seedVisit(t *testing.T, store *journal.Store, rawURL, title string, ts time.Time) {
	t.Helper()

	ctx := context.Background()
	data, err := store.Get(ctx)
	require.NoError(t, err)

	day := journal.DayKey(ts)
	data.Bucket(day)[rawURL] = journal.PageRecord{
		URL:             rawURL,
		Title:           title,
		Timestamp:       ts,
		ContentLength:   120,
		FallbackSummary: "A short synopsis of " + title + ".",
	}
	require.NoError(t, store.Put(ctx, data))
}

func TestToday_EmptyDay(t *testing.T) {
	store := openTestStore(t)
	cmd := &TodayCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, summarize.Disabled{}))
	})

	assert.Contains(t, output, "No pages visited today.")
}

func TestToday_ListsVisitedPages(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	seedVisit(t, store, "https://news.example.com/story", "Big Story", now)
	seedVisit(t, store, "https://news.example.com/story/comments", "Comments", now.Add(time.Minute))

	cmd := &TodayCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, summarize.Disabled{}))
	})

	assert.Contains(t, output, "Journey for "+journal.DayKey(now))
	assert.Contains(t, output, "Big Story")
	assert.Contains(t, output, "Comments")
	assert.Contains(t, output, "news.example.com")
}

func TestToday_JSONOutput(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	seedVisit(t, store, "https://example.com/a", "Page A", now)

	cmd := &TodayCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, summarize.Disabled{}))
	})

	var summary aggregate.DailySummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary), "output should be valid JSON: %s", output)
	assert.Equal(t, 1, summary.TotalPages)
	require.Len(t, summary.Pages, 1)
	assert.Equal(t, "https://example.com/a", summary.Pages[0].URL)
}
