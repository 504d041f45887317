// Package retention rotates the journey's day buckets: once per day the
// previous day's visits move into a bounded archive, and archives beyond
// the retention window are discarded.
package retention

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/journey/internal/journal"
)

// DefaultResetHour is the local hour at which a new journey day starts.
const DefaultResetHour = 6

// Scheduler performs the daily reset against the journey store. One
// instance runs for the process lifetime; the reset never runs
// concurrently with itself.
type Scheduler struct {
	store       *journal.Store
	log         *logrus.Logger
	resetHour   int
	maxArchived int
	now         func() time.Time
}

// NewScheduler creates a Scheduler resetting at the given local hour.
func NewScheduler(store *journal.Store, resetHour int, log *logrus.Logger) *Scheduler {
	if resetHour < 0 || resetHour > 23 {
		resetHour = DefaultResetHour
	}
	if log == nil {
		log = logrus.New()
	}
	return &Scheduler{
		store:       store,
		log:         log,
		resetHour:   resetHour,
		maxArchived: journal.MaxArchivedDays,
		now:         time.Now,
	}
}

// NextResetInstant returns the next reset time strictly after now: today's
// reset hour when now is still before it, otherwise tomorrow's.
func (s *Scheduler) NextResetInstant(now time.Time) time.Time {
	now = now.Local()
	reset := time.Date(now.Year(), now.Month(), now.Day(), s.resetHour, 0, 0, 0, now.Location())
	if !now.Before(reset) {
		reset = time.Date(now.Year(), now.Month(), now.Day()+1, s.resetHour, 0, 0, 0, now.Location())
	}
	return reset
}

// MaybeReset archives yesterday's bucket (moving, not copying) and prunes
// the archive to the retention window. When yesterday has no bucket the
// archival is skipped but pruning still runs. Today's bucket is never
// touched.
func (s *Scheduler) MaybeReset(ctx context.Context, now time.Time) error {
	yesterday := journal.DayKey(now.AddDate(0, 0, -1))

	data, err := s.store.Get(ctx)
	if err != nil {
		return err
	}

	if bucket, ok := data.VisitedPages[yesterday]; ok {
		data.ArchivedDays[yesterday] = bucket
		delete(data.VisitedPages, yesterday)
		s.log.WithFields(logrus.Fields{
			"day":   yesterday,
			"pages": len(bucket),
		}).Info("day archived")
	}

	evicted := pruneArchives(data, s.maxArchived)
	if evicted > 0 {
		s.log.WithField("evicted", evicted).Info("old archives pruned")
	}

	return s.store.Put(ctx, data)
}

// pruneArchives keeps only the max most recent archived day keys, relying
// on day keys sorting lexicographically in date order. Returns how many
// days were evicted.
func pruneArchives(data *journal.JourneyData, max int) int {
	if len(data.ArchivedDays) <= max {
		return 0
	}

	keys := make([]string, 0, len(data.ArchivedDays))
	for key := range data.ArchivedDays {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	evict := keys[:len(keys)-max]
	for _, key := range evict {
		delete(data.ArchivedDays, key)
	}
	return len(evict)
}

// Run performs the startup catch-up reset, then fires at each daily reset
// instant until the context is cancelled. If the process was asleep at
// the scheduled instant, the catch-up covers it on the next start.
func (s *Scheduler) Run(ctx context.Context) {
	if now := s.now(); now.Local().Hour() >= s.resetHour {
		if err := s.MaybeReset(ctx, now); err != nil {
			s.log.WithError(err).Error("startup reset failed")
		}
	}

	for {
		now := s.now()
		timer := time.NewTimer(s.NextResetInstant(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.MaybeReset(ctx, s.now()); err != nil {
				s.log.WithError(err).Error("daily reset failed")
			}
		}
	}
}
