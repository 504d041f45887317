package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Metadata carries the page-level meta tags read alongside the content.
type Metadata struct {
	Description   string `json:"description"`
	Keywords      string `json:"keywords"`
	Author        string `json:"author"`
	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	URL           string `json:"url"`
	Domain        string `json:"domain"`
}

// Content is one extraction attempt over a page snapshot. It is immutable
// and consumed by the aggregator; it is never persisted directly.
type Content struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Placeholder is returned as content when no strategy produced anything.
const Placeholder = "Page content not available"

const (
	// minAcceptChars is the smallest cleaned text accepted from a single
	// container or element.
	minAcceptChars = 50
	// minAggregateChars is the smallest accepted total for the loose text
	// aggregation strategy.
	minAggregateChars = 100
	// maxVideoDescChars bounds the description in a video summary.
	maxVideoDescChars = 200
)

// contentSelectors is the ordered probe list for the selector scan, most
// semantic first. Common CMS, video, and feed container class names come
// after the structural ones.
var contentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	"#content",
	"#main-content",
	".main-content",
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".story-body",
	".post-body",
	"#primary",
	".content",
	"#watch7-content",
	"ytd-watch-metadata",
	".feed",
	"[role=feed]",
}

// unwantedSelectors is the denylist stripped before the body fallback.
var unwantedSelectors = []string{
	"nav", "header", "footer", "aside",
	"script", "style", "noscript", "iframe", "form",
	".nav", ".navbar", ".menu", ".sidebar",
	".header", ".footer", ".ad", ".ads", ".advertisement",
	".social", ".share", ".social-share", ".comments",
}

// strategy is one pure attempt at producing content from a document.
// It returns the extracted text and whether it succeeded.
type strategy func(doc *goquery.Document, pageURL string) (string, bool)

// Extractor turns a parsed page snapshot into a Content record using a
// prioritized strategy chain, first success wins. Extract never fails:
// when every strategy comes up empty it falls back to a metadata-only
// record.
type Extractor struct {
	strategies []strategy
	now        func() time.Time
}

// New creates an Extractor with the default strategy chain.
func New() *Extractor {
	e := &Extractor{now: time.Now}
	e.strategies = []strategy{
		selectorScan,
		videoSummary,
		looseTextAggregation,
		bodyFallback,
	}
	return e
}

// ParseHTML parses raw HTML into a document the extractor can consume.
func ParseHTML(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Extract runs the strategy chain over the document snapshot. It is a pure
// function of the snapshot and is safe to call repeatedly; later calls
// simply supersede earlier ones downstream.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) Content {
	result := Content{
		Title:     Placeholder,
		Content:   Placeholder,
		Timestamp: e.now(),
	}
	result.Metadata = Metadata{URL: pageURL, Domain: hostname(pageURL)}

	if doc == nil {
		return result
	}

	result.Metadata = readMetadata(doc, pageURL)
	result.Title = pageTitle(doc, result.Metadata)

	for _, try := range e.strategies {
		if text, ok := runStrategy(try, doc, pageURL); ok {
			result.Content = text
			return result
		}
	}

	// Metadata-only fallback: title plus any meta description.
	if text := metadataContent(result.Title, result.Metadata); text != "" {
		result.Content = text
	}
	return result
}

// runStrategy shields the chain from a panicking strategy; a failure just
// falls through to the next one.
func runStrategy(try strategy, doc *goquery.Document, pageURL string) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()
	return try(doc, pageURL)
}

// selectorScan probes the fixed selector list and accepts the first
// container whose cleaned text is long enough.
func selectorScan(doc *goquery.Document, _ string) (string, bool) {
	for _, sel := range contentSelectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		text := CleanText(found.First().Text())
		if len(text) > minAcceptChars {
			return text, true
		}
	}
	return "", false
}

// videoSummary assembles a structured summary for video-player pages from
// the video title, channel name, truncated description, and a coarse
// content-type label derived from the URL path.
func videoSummary(doc *goquery.Document, pageURL string) (string, bool) {
	player := doc.Find("video, #movie_player, .html5-video-player, [class*=video-player]")
	if player.Length() == 0 {
		return "", false
	}

	title := firstText(doc,
		"h1.title", "h1.ytd-watch-metadata", "#title h1", "h1[class*=video-title]")
	if title == "" {
		title = metaAttr(doc, "meta[itemprop=name]")
	}
	channel := firstText(doc,
		"#channel-name a", ".ytd-channel-name a", "[itemprop=author] [itemprop=name]", ".channel-name")
	description := firstText(doc, "#description", ".video-description")
	if description == "" {
		description = metaAttr(doc, "meta[itemprop=description]")
	}

	if title == "" && channel == "" && description == "" {
		return "", false
	}

	var parts []string
	if title != "" {
		parts = append(parts, "Video: "+title)
	}
	if channel != "" {
		parts = append(parts, "Channel: "+channel)
	}
	if description != "" {
		parts = append(parts, "Description: "+truncate(description, maxVideoDescChars))
	}
	parts = append(parts, "Type: "+videoPageType(pageURL))

	return strings.Join(parts, "\n"), true
}

// videoPageType derives a coarse content-type label from the URL path.
func videoPageType(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "Video page"
	}
	path := u.Path
	switch {
	case strings.Contains(path, "/watch"):
		return "Video page"
	case strings.Contains(path, "/channel") || strings.Contains(path, "/@"):
		return "Channel page"
	case strings.Contains(path, "/results") || strings.Contains(path, "/search"):
		return "Search results"
	case strings.Contains(path, "/playlist"):
		return "Playlist"
	default:
		return "Video page"
	}
}

// looseTextAggregation concatenates any individual block or heading
// element whose trimmed text is long enough.
func looseTextAggregation(doc *goquery.Document, _ string) (string, bool) {
	var parts []string
	doc.Find("p, h1, h2, h3, h4, h5, li, td, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minAcceptChars {
			parts = append(parts, text)
		}
	})

	aggregate := strings.Join(parts, "\n\n")
	if len(aggregate) <= minAggregateChars {
		return "", false
	}
	return truncate(aggregate, MaxContentChars), true
}

// bodyFallback clones the body, strips the unwanted-element denylist, and
// cleans whatever text is left.
func bodyFallback(doc *goquery.Document, _ string) (string, bool) {
	body := doc.Find("body")
	if body.Length() == 0 {
		return "", false
	}

	clone := body.Clone()
	for _, sel := range unwantedSelectors {
		clone.Find(sel).Remove()
	}

	text := CleanText(clone.Text())
	if len(text) > minAcceptChars {
		return text, true
	}
	return "", false
}

// metadataContent composes the last-resort record from the title and any
// description meta tags. Returns "" when there is nothing to compose.
func metadataContent(title string, meta Metadata) string {
	var parts []string
	if title != "" && title != Placeholder {
		parts = append(parts, title)
	}
	if meta.Description != "" {
		parts = append(parts, meta.Description)
	} else if meta.OGDescription != "" {
		parts = append(parts, meta.OGDescription)
	}
	return strings.Join(parts, "\n")
}

// readMetadata pulls the standard and Open Graph meta tags.
func readMetadata(doc *goquery.Document, pageURL string) Metadata {
	return Metadata{
		Description:   metaAttr(doc, "meta[name=description]"),
		Keywords:      metaAttr(doc, "meta[name=keywords]"),
		Author:        metaAttr(doc, "meta[name=author]"),
		OGTitle:       metaAttr(doc, `meta[property="og:title"]`),
		OGDescription: metaAttr(doc, `meta[property="og:description"]`),
		URL:           pageURL,
		Domain:        hostname(pageURL),
	}
}

// pageTitle prefers the document title, then the Open Graph title.
func pageTitle(doc *goquery.Document, meta Metadata) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if meta.OGTitle != "" {
		return meta.OGTitle
	}
	return Placeholder
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			if text := strings.TrimSpace(found.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// metaAttr returns the content attribute of the first matching meta tag.
func metaAttr(doc *goquery.Document, selector string) string {
	value, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(value)
}

// hostname extracts the host from a URL, or "" when it cannot be parsed.
func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
