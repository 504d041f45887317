package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/journey/internal/journal"
)

func TestReset_InvalidAtFlag(t *testing.T) {
	cmd := &ResetCommand{At: "yesterday-ish", globals: &GlobalFlags{}}

	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --at time")
}

func TestReset_ArchivesYesterday(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	seedVisit(t, store, "https://example.com/old", "Old Page", yesterday)

	cmd := &ResetCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, 6, now))
	})

	assert.Contains(t, output, "Reset complete.")

	data, err := store.Get(context.Background())
	require.NoError(t, err)

	yesterdayKey := journal.DayKey(yesterday)
	assert.NotContains(t, data.VisitedPages, yesterdayKey)
	require.Contains(t, data.ArchivedDays, yesterdayKey)
	assert.Contains(t, data.ArchivedDays[yesterdayKey], "https://example.com/old")
}

func TestReset_JSONOutput(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	seedVisit(t, store, "https://example.com/old", "Old Page", now.AddDate(0, 0, -1))

	cmd := &ResetCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, 6, now))
	})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)
	assert.Equal(t, true, result["reset"])
	assert.Equal(t, float64(1), result["archived_days"])
	assert.NotEmpty(t, result["next_reset"])
}
