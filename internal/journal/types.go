package journal

import "time"

// DayKeyLayout is the calendar-date format used to key one day of visits.
// Lexicographic order on keys in this layout matches chronological order,
// which the archive pruning logic relies on.
const DayKeyLayout = "2006-01-02"

// MaxArchivedDays is the number of past days kept in the archive.
const MaxArchivedDays = 7

// PageRecord is one recorded page visit. The URL is the unique key within
// a day; at most one of AISummary/FallbackSummary is set.
type PageRecord struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Timestamp       time.Time `json:"timestamp"`
	ContentLength   int       `json:"contentLength"`
	AISummary       string    `json:"aiSummary,omitempty"`
	FallbackSummary string    `json:"fallbackSummary,omitempty"`
}

// Summary returns the best available summary text for the record.
func (r PageRecord) Summary() string {
	if r.AISummary != "" {
		return r.AISummary
	}
	if r.FallbackSummary != "" {
		return r.FallbackSummary
	}
	return "No summary available"
}

// DayBucket holds all records for one calendar day, keyed by URL.
type DayBucket map[string]PageRecord

// JourneyData is the full persisted journey state: the active per-day
// visit buckets plus a bounded archive of past days.
type JourneyData struct {
	VisitedPages map[string]DayBucket `json:"visitedPages"`
	ArchivedDays map[string]DayBucket `json:"archivedDays"`
}

// NewJourneyData returns an empty JourneyData with initialized maps.
func NewJourneyData() *JourneyData {
	return &JourneyData{
		VisitedPages: map[string]DayBucket{},
		ArchivedDays: map[string]DayBucket{},
	}
}

// normalize ensures both maps are non-nil after JSON decoding.
func (d *JourneyData) normalize() {
	if d.VisitedPages == nil {
		d.VisitedPages = map[string]DayBucket{}
	}
	if d.ArchivedDays == nil {
		d.ArchivedDays = map[string]DayBucket{}
	}
}

// Bucket returns the bucket for the given day key, creating it if absent.
func (d *JourneyData) Bucket(day string) DayBucket {
	b, ok := d.VisitedPages[day]
	if !ok {
		b = DayBucket{}
		d.VisitedPages[day] = b
	}
	return b
}

// DayKey formats a point in time as its calendar-day key in local time.
func DayKey(t time.Time) string {
	return t.Local().Format(DayKeyLayout)
}
