// Package summarize wraps the external text-summarization capability.
// The capability may be absent or fail at any time; callers must keep a
// local fallback path that needs no external call.
package summarize

import "context"

// Availability reports whether the summarization capability can be used.
type Availability string

const (
	// Unavailable means no capability is configured.
	Unavailable Availability = "unavailable"
	// Available means sessions can be created now.
	Available Availability = "available"
	// Downloadable means the capability exists but needs provisioning
	// before first use.
	Downloadable Availability = "downloadable"
)

// Session is one summarization conversation bound to a system prompt.
type Session interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Summarizer is the capability entry point.
type Summarizer interface {
	Availability() Availability
	NewSession(ctx context.Context, systemPrompt string) (Session, error)
}
