package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/journey/internal/journal"
)

// seedArchive writes an archived day bucket directly.
func seedArchive(t *testing.T, store *journal.Store, day string) {
	t.Helper()

	ctx := context.Background()
	data, err := store.Get(ctx)
	require.NoError(t, err)

	data.ArchivedDays[day] = journal.DayBucket{
		"https://example.com/" + day: journal.PageRecord{
			URL:   "https://example.com/" + day,
			Title: "Archived " + day,
		},
	}
	require.NoError(t, store.Put(ctx, data))
}

func TestStatus_HumanOutput(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	seedVisit(t, store, "https://example.com/a", "Page A", now)
	seedVisit(t, store, "https://example.com/b", "Page B", now)
	seedArchive(t, store, "2025-03-10")
	seedArchive(t, store, "2025-03-12")

	cmd := &StatusCommand{
		globals: &GlobalFlags{},
		version: "test",
	}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, filepath.Join(t.TempDir(), "journey.db"), "127.0.0.1", 0, 6))
	})

	assert.Contains(t, output, "Journey Status")
	assert.Contains(t, output, "Pages today:    2")
	assert.Contains(t, output, "Archived days:  2")
	assert.Contains(t, output, "Archive range:  2025-03-10 .. 2025-03-12")
	assert.Contains(t, output, "Daemon:         not running")
}

func TestStatus_JSONOutput(t *testing.T) {
	store := openTestStore(t)

	seedVisit(t, store, "https://example.com/a", "Page A", time.Now())
	seedArchive(t, store, "2025-03-11")

	cmd := &StatusCommand{
		globals: &GlobalFlags{JSON: true},
		version: "test",
	}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, "journey.db", "127.0.0.1", 0, 6))
	})

	var result statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)
	assert.Equal(t, "test", result.Version)
	assert.Equal(t, 1, result.PagesToday)
	assert.Equal(t, 1, result.ArchivedDays)
	assert.Equal(t, "2025-03-11", result.OldestArchive)
	assert.Equal(t, "2025-03-11", result.NewestArchive)
	assert.False(t, result.DaemonRunning)
	assert.NotEmpty(t, result.NextReset)
}

func TestStatus_EmptyStore(t *testing.T) {
	store := openTestStore(t)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "test"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, "journey.db", "127.0.0.1", 0, 6))
	})

	assert.Contains(t, output, "Pages today:    0")
	assert.Contains(t, output, "Archived days:  0")
	assert.NotContains(t, output, "Archive range")
}
