package aggregate

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/runnerr0/journey/internal/journal"
	"github.com/runnerr0/journey/internal/summarize"
)

// EmptySummaryText is the exact overview rendered for a day with no visits.
const EmptySummaryText = "No pages visited today."

// DomainGroup is the per-domain view of a day's visits. MainPage is the
// most recent root-level visit; deeper paths are sub-pages. Derived fresh
// on every summary request, never persisted.
type DomainGroup struct {
	Domain   string
	MainPage *journal.PageRecord
	SubPages []journal.PageRecord
}

// PageView is one entry in the flattened daily summary.
type PageView struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Summary   string    `json:"summary"`
	Domain    string    `json:"domain"`
	IsMain    bool      `json:"isMain"`
	// SubPageCount annotates a main page with how many sub-pages its
	// domain collected.
	SubPageCount int `json:"subPageCount,omitempty"`
	// Path annotates a sub-page with its location under the parent domain.
	Path string `json:"path,omitempty"`
}

// DailySummary is the renderable shape of one day's journey.
type DailySummary struct {
	Date       string     `json:"date"`
	TotalPages int        `json:"totalPages"`
	Summary    string     `json:"summary"`
	Pages      []PageView `json:"pages"`
}

// DailySummary computes the summary view of today's bucket. An empty day
// yields the explicit empty state, never an error.
func (a *Aggregator) DailySummary(ctx context.Context) (*DailySummary, error) {
	day := journal.DayKey(a.now())

	data, err := a.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	bucket := data.VisitedPages[day]
	if len(bucket) == 0 {
		return &DailySummary{
			Date:       day,
			TotalPages: 0,
			Summary:    EmptySummaryText,
			Pages:      []PageView{},
		}, nil
	}

	records := bucketRecords(bucket)
	groups := GroupByDomain(records)

	return &DailySummary{
		Date:       day,
		TotalPages: len(records),
		Summary:    a.overview(ctx, records),
		Pages:      flattenGroups(groups),
	}, nil
}

// bucketRecords orders a bucket's records by visit time, oldest first,
// with the URL as a deterministic tie-break.
func bucketRecords(bucket journal.DayBucket) []journal.PageRecord {
	records := make([]journal.PageRecord, 0, len(bucket))
	for _, rec := range bucket {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].URL < records[j].URL
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records
}

// GroupByDomain groups visit records into DomainGroups in first-seen
// order. A root-level visit becomes the domain's main page, with a later
// timestamp replacing an earlier one; deeper paths accumulate as
// sub-pages.
func GroupByDomain(records []journal.PageRecord) []DomainGroup {
	var order []string
	byDomain := map[string]*DomainGroup{}

	for _, rec := range records {
		rec := rec
		domain, _, isMain := classifyURL(rec.URL)

		group, ok := byDomain[domain]
		if !ok {
			group = &DomainGroup{Domain: domain}
			byDomain[domain] = group
			order = append(order, domain)
		}

		if isMain {
			if group.MainPage == nil || !rec.Timestamp.Before(group.MainPage.Timestamp) {
				group.MainPage = &rec
			}
			continue
		}
		group.SubPages = append(group.SubPages, rec)
	}

	groups := make([]DomainGroup, 0, len(order))
	for _, domain := range order {
		groups = append(groups, *byDomain[domain])
	}
	return groups
}

// classifyURL returns the grouping domain, the path, and whether the URL
// is a main page (root or a single path segment). A malformed URL groups
// under the raw string with no sub-page classification.
func classifyURL(rawURL string) (domain, path string, isMain bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL, "", true
	}

	segments := 0
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments++
		}
	}
	return u.Hostname(), u.Path, segments <= 1
}

// flattenGroups emits each domain's main page first (annotated with its
// sub-page count), then its sub-pages (annotated with domain and path),
// and sorts the whole list by timestamp descending.
func flattenGroups(groups []DomainGroup) []PageView {
	var pages []PageView
	for _, group := range groups {
		if group.MainPage != nil {
			rec := *group.MainPage
			pages = append(pages, PageView{
				URL:          rec.URL,
				Title:        rec.Title,
				Timestamp:    rec.Timestamp,
				Summary:      rec.Summary(),
				Domain:       group.Domain,
				IsMain:       true,
				SubPageCount: len(group.SubPages),
			})
		}
		for _, rec := range group.SubPages {
			_, path, _ := classifyURL(rec.URL)
			pages = append(pages, PageView{
				URL:       rec.URL,
				Title:     rec.Title,
				Timestamp: rec.Timestamp,
				Summary:   rec.Summary(),
				Domain:    group.Domain,
				Path:      path,
			})
		}
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Timestamp.After(pages[j].Timestamp)
	})
	return pages
}

// overview produces the day's overview string: AI over the concatenated
// page summaries when the capability works, else the deterministic
// category-count fallback.
func (a *Aggregator) overview(ctx context.Context, records []journal.PageRecord) string {
	if a.summarizer.Availability() == summarize.Available {
		text, err := a.aiOverview(ctx, records)
		if err == nil {
			return text
		}
		a.log.WithError(err).Warn("overview summarization failed")
	}
	return fallbackOverview(records)
}

// aiOverview summarizes the concatenation of the individual page
// summaries. The session is created fresh per request.
func (a *Aggregator) aiOverview(ctx context.Context, records []journal.PageRecord) (string, error) {
	session, err := a.summarizer.NewSession(ctx, overviewSystemPrompt)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, rec := range records {
		lines = append(lines, "- "+rec.Title+": "+rec.Summary())
	}
	prompt := fmt.Sprintf("Today's %d visited pages:\n%s", len(records), strings.Join(lines, "\n"))

	text, err := session.Summarize(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// categoryKeywords maps hostname substrings to browsing categories, in
// match priority order.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"news", []string{"news", "blog"}},
	{"social", []string{"social", "twitter", "facebook"}},
	{"shopping", []string{"shop", "amazon", "ebay"}},
	{"work", []string{"work", "linkedin", "github"}},
}

// categoryOf classifies a hostname by substring match, defaulting to
// "general".
func categoryOf(host string) string {
	host = strings.ToLower(host)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(host, kw) {
				return entry.category
			}
		}
	}
	return "general"
}

// fallbackOverview synthesizes the deterministic overview from per-host
// category counts, categories listed in first-seen order.
func fallbackOverview(records []journal.PageRecord) string {
	var order []string
	counts := map[string]int{}

	for _, rec := range records {
		host := rec.URL
		if u, err := url.Parse(rec.URL); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
		category := categoryOf(host)
		if _, seen := counts[category]; !seen {
			order = append(order, category)
		}
		counts[category]++
	}

	parts := make([]string, 0, len(order))
	for _, category := range order {
		parts = append(parts, fmt.Sprintf("%d %s pages", counts[category], category))
	}

	return fmt.Sprintf("Today you visited %d pages. %s.", len(records), strings.Join(parts, ", "))
}
