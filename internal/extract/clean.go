package extract

import (
	"regexp"
	"strings"
)

// MaxContentChars caps every extracted content string.
const MaxContentChars = 15000

// minLineChars is the anti-navigation filter: lines shorter than this are
// discarded as likely menu/link noise.
const minLineChars = 20

var (
	horizontalSpaceRe = regexp.MustCompile(`[^\S\n]+`)
	multiNewlineRe    = regexp.MustCompile(`\n\s*\n+`)
)

// CleanText normalizes raw element text: whitespace runs collapse to
// single spaces, newline runs collapse to one, lines shorter than the
// navigation-filter threshold are dropped, and the result is capped at
// MaxContentChars.
func CleanText(s string) string {
	s = horizontalSpaceRe.ReplaceAllString(s, " ")
	s = multiNewlineRe.ReplaceAllString(s, "\n")

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= minLineChars {
			kept = append(kept, line)
		}
	}

	return truncate(strings.Join(kept, "\n"), MaxContentChars)
}

// truncate caps s at max bytes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
