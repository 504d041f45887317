// Package aggregate consumes extracted page content, records visits into
// the journey store, and shapes the per-day record into a renderable
// summary.
package aggregate

import (
	"context"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/journey/internal/extract"
	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/summarize"
)

// maxSummaryInputChars bounds how much page content is sent to the
// summarization capability.
const maxSummaryInputChars = 8000

// fallbackSentenceCount is how many sentence segments the heuristic
// fallback summary keeps.
const fallbackSentenceCount = 3

// minSentenceChars filters out fragments when splitting into sentences.
const minSentenceChars = 20

const pageSystemPrompt = "You summarize web pages. Reply with two or three plain sentences " +
	"describing what the page is about. No preamble."

const overviewSystemPrompt = "You summarize a day of web browsing. Given the summaries of the " +
	"pages visited today, reply with a short paragraph describing the day's browsing. No preamble."

// Aggregator owns visit recording and daily-summary computation. A single
// instance is constructed at process start and shared by all handlers.
type Aggregator struct {
	store      *journal.Store
	summarizer summarize.Summarizer
	log        *logrus.Logger

	// busy enforces at most one in-flight aggregation: a RecordVisit
	// arriving while another is running is dropped, not queued.
	busy atomic.Bool

	// session is the live summarization session, created lazily on first
	// use and kept for the process lifetime.
	session summarize.Session

	now func() time.Time
}

// New creates an Aggregator over the given store and summarization
// capability.
func New(store *journal.Store, summarizer summarize.Summarizer, log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logrus.New()
	}
	return &Aggregator{
		store:      store,
		summarizer: summarizer,
		log:        log,
		now:        time.Now,
	}
}

// RecordVisit writes a PageRecord for the extracted content into today's
// bucket. Re-visiting a URL already recorded today is a no-op. A call
// arriving while another record is in flight is dropped. Summarization
// failure never aborts the write.
func (a *Aggregator) RecordVisit(ctx context.Context, content extract.Content) error {
	if !a.busy.CompareAndSwap(false, true) {
		a.log.WithField("url", content.Metadata.URL).Debug("aggregation in flight, visit dropped")
		return nil
	}
	defer a.busy.Store(false)

	pageURL := content.Metadata.URL
	day := journal.DayKey(a.now())

	data, err := a.store.Get(ctx)
	if err != nil {
		return err
	}

	bucket := data.Bucket(day)
	if _, seen := bucket[pageURL]; seen {
		a.log.WithField("url", pageURL).Debug("url already recorded today")
		return nil
	}

	ts := content.Timestamp
	if ts.IsZero() {
		ts = a.now()
	}

	record := journal.PageRecord{
		URL:           pageURL,
		Title:         content.Title,
		Timestamp:     ts,
		ContentLength: len(content.Content),
	}

	if summary, ok := a.aiSummary(ctx, content); ok {
		record.AISummary = summary
	} else {
		record.FallbackSummary = FallbackSummary(content.Content)
	}

	bucket[pageURL] = record
	if err := a.store.Put(ctx, data); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"url": pageURL,
		"day": day,
	}).Info("visit recorded")
	return nil
}

// aiSummary attempts an AI summary of the page content. It reports false
// when the capability is unavailable, the content is empty, or the call
// fails; the caller then uses the heuristic fallback.
func (a *Aggregator) aiSummary(ctx context.Context, content extract.Content) (string, bool) {
	if content.Content == "" || a.summarizer.Availability() != summarize.Available {
		return "", false
	}

	session, err := a.liveSession(ctx)
	if err != nil {
		a.log.WithError(err).Warn("summarization session unavailable")
		return "", false
	}

	input := content.Content
	if len(input) > maxSummaryInputChars {
		input = input[:maxSummaryInputChars]
	}

	summary, err := session.Summarize(ctx, "Summarize this page ("+content.Metadata.URL+"):\n\n"+input)
	if err != nil {
		a.log.WithError(err).WithField("url", content.Metadata.URL).Warn("summarization failed")
		return "", false
	}
	return strings.TrimSpace(summary), true
}

// liveSession returns the cached summarization session, creating it on
// first use.
func (a *Aggregator) liveSession(ctx context.Context) (summarize.Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	session, err := a.summarizer.NewSession(ctx, pageSystemPrompt)
	if err != nil {
		return nil, err
	}
	a.session = session
	return session, nil
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// FallbackSummary is the deterministic non-AI summary: the first three
// sentence-like segments of the content, with an ellipsis when more
// segments remained.
func FallbackSummary(content string) string {
	var sentences []string
	total := 0
	for _, seg := range sentenceSplitRe.Split(content, -1) {
		seg = strings.TrimSpace(seg)
		if len(seg) <= minSentenceChars {
			continue
		}
		total++
		if len(sentences) < fallbackSentenceCount {
			sentences = append(sentences, seg)
		}
	}

	if len(sentences) == 0 {
		return ""
	}

	summary := strings.Join(sentences, ". ")
	if total > fallbackSentenceCount {
		summary += "..."
	}
	return summary
}
