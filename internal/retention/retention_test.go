package retention

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/journey/internal/journal"
)

func setupScheduler(t *testing.T) (*Scheduler, *journal.Store) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, journal.NewMigrationRunner(db).Run())
	kv, err := journal.NewSQLiteKV(db)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	store := journal.NewStore(kv)
	return NewScheduler(store, DefaultResetHour, nil), store
}

// --- NextResetInstant ---

func TestNextResetInstant_BeforeResetHour(t *testing.T) {
	s, _ := setupScheduler(t)
	now := time.Date(2025, 3, 14, 4, 30, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 3, 14, 6, 0, 0, 0, time.Local), s.NextResetInstant(now))
}

func TestNextResetInstant_AfterResetHour(t *testing.T) {
	s, _ := setupScheduler(t)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 3, 15, 6, 0, 0, 0, time.Local), s.NextResetInstant(now))
}

func TestNextResetInstant_ExactlyResetHourIsTomorrow(t *testing.T) {
	s, _ := setupScheduler(t)
	now := time.Date(2025, 3, 14, 6, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 3, 15, 6, 0, 0, 0, time.Local), s.NextResetInstant(now))
}

func TestNextResetInstant_MonthBoundary(t *testing.T) {
	s, _ := setupScheduler(t)
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, 4, 1, 6, 0, 0, 0, time.Local), s.NextResetInstant(now))
}

// --- MaybeReset ---

func TestMaybeReset_ArchivesYesterday(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 6, 0, 0, 0, time.Local)
	yesterday := journal.DayKey(now.AddDate(0, 0, -1))
	today := journal.DayKey(now)

	data := journal.NewJourneyData()
	data.Bucket(yesterday)["https://example.com/a"] = journal.PageRecord{URL: "https://example.com/a"}
	data.Bucket(today)["https://example.com/b"] = journal.PageRecord{URL: "https://example.com/b"}
	require.NoError(t, store.Put(ctx, data))

	require.NoError(t, s.MaybeReset(ctx, now))

	got, err := store.Get(ctx)
	require.NoError(t, err)

	// Moved, not copied.
	assert.NotContains(t, got.VisitedPages, yesterday)
	require.Contains(t, got.ArchivedDays, yesterday)
	assert.Contains(t, got.ArchivedDays[yesterday], "https://example.com/a")

	// Today untouched.
	assert.Contains(t, got.VisitedPages, today)
	assert.LessOrEqual(t, len(got.ArchivedDays), journal.MaxArchivedDays)
}

func TestMaybeReset_OverwritesPriorArchive(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 6, 0, 0, 0, time.Local)
	yesterday := journal.DayKey(now.AddDate(0, 0, -1))

	data := journal.NewJourneyData()
	data.ArchivedDays[yesterday] = journal.DayBucket{
		"https://stale.example.com/": journal.PageRecord{URL: "https://stale.example.com/"},
	}
	data.Bucket(yesterday)["https://fresh.example.com/"] = journal.PageRecord{URL: "https://fresh.example.com/"}
	require.NoError(t, store.Put(ctx, data))

	require.NoError(t, s.MaybeReset(ctx, now))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Contains(t, got.ArchivedDays, yesterday)
	assert.NotContains(t, got.ArchivedDays[yesterday], "https://stale.example.com/")
	assert.Contains(t, got.ArchivedDays[yesterday], "https://fresh.example.com/")
}

func TestMaybeReset_NoYesterdayStillPrunes(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()

	data := journal.NewJourneyData()
	for i := 1; i <= 9; i++ {
		key := fmt.Sprintf("2025-02-%02d", i)
		data.ArchivedDays[key] = journal.DayBucket{}
	}
	require.NoError(t, store.Put(ctx, data))

	now := time.Date(2025, 3, 14, 6, 0, 0, 0, time.Local)
	require.NoError(t, s.MaybeReset(ctx, now))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, got.ArchivedDays, journal.MaxArchivedDays)
}

// --- Eviction ---

func TestPruneArchives_KeepsSevenLatest(t *testing.T) {
	data := journal.NewJourneyData()
	for i := 1; i <= 9; i++ {
		data.ArchivedDays[fmt.Sprintf("2025-02-%02d", i)] = journal.DayBucket{}
	}

	evicted := pruneArchives(data, 7)
	assert.Equal(t, 2, evicted)
	assert.Len(t, data.ArchivedDays, 7)
	assert.NotContains(t, data.ArchivedDays, "2025-02-01")
	assert.NotContains(t, data.ArchivedDays, "2025-02-02")
	assert.Contains(t, data.ArchivedDays, "2025-02-03")
	assert.Contains(t, data.ArchivedDays, "2025-02-09")
}

func TestPruneArchives_UnderLimitIsNoop(t *testing.T) {
	data := journal.NewJourneyData()
	data.ArchivedDays["2025-02-01"] = journal.DayBucket{}

	assert.Equal(t, 0, pruneArchives(data, 7))
	assert.Len(t, data.ArchivedDays, 1)
}

// --- Run ---

func TestRun_StopsOnContextCancel(t *testing.T) {
	s, _ := setupScheduler(t)
	s.now = func() time.Time {
		// Before the reset hour: no startup catch-up fires.
		return time.Date(2025, 3, 14, 3, 0, 0, 0, time.Local)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

func TestRun_StartupCatchUp(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	yesterday := journal.DayKey(now.AddDate(0, 0, -1))
	data := journal.NewJourneyData()
	data.Bucket(yesterday)["https://example.com/"] = journal.PageRecord{URL: "https://example.com/"}
	require.NoError(t, store.Put(ctx, data))

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		s.Run(runCtx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, err := store.Get(ctx)
		if err != nil {
			return false
		}
		_, archived := got.ArchivedDays[yesterday]
		return archived
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
