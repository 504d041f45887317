package cli

import "github.com/runnerr0/journey/internal/journal"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// RecordCommand — record a page visit into today's journey.
type RecordCommand struct {
	URL         string `long:"url" description:"Page URL (required)"`
	Title       string `long:"title" description:"Page title"`
	HTMLFile    string `long:"html-file" description:"Path to an HTML file to run through the extractor"`
	Content     string `long:"content" description:"Inline pre-extracted page text"`
	ContentFile string `long:"content-file" description:"Path to a file with pre-extracted page text"`

	globals *GlobalFlags
	version string
	store   *journal.Store // injectable for testing; nil means open from config
}

// TodayCommand — print today's daily summary.
type TodayCommand struct {
	globals *GlobalFlags
	version string
	store   *journal.Store
}

// ServeCommand — run the ingest daemon and the retention scheduler.
type ServeCommand struct {
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// ResetCommand — run the daily reset (archive yesterday, prune archives) now.
type ResetCommand struct {
	At string `long:"at" description:"Run the reset as if the clock read this RFC3339 time"`

	globals *GlobalFlags
	version string
	store   *journal.Store
}

// ClearCommand — delete ALL journey data with safety confirmation.
type ClearCommand struct {
	All   bool `long:"all" description:"Required flag to confirm clear intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	store   *journal.Store
}

// StatusCommand — show journey health: today's pages, archives, next reset.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	store   *journal.Store
	dbPath  string // set alongside store when injected
}
