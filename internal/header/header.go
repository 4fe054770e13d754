// Package header serializes record metadata into YAML front matter blocks
// that are guaranteed to parse, even when source fields carry hostile
// characters or embedded markup. A block that fails its own parse-back check
// is replaced wholesale by a minimal fallback.
package header

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
)

// FallbackTitle is emitted when a fallback header has no usable title.
const FallbackTitle = "Post Title"

// Fields are the header attributes in serialization order.
type Fields struct {
	Title    string
	Subtitle string
	Category string
	Tags     []string
	Date     string // YYYY-MM-DD or empty
	Type     string // provenance marker
	SourceID string // exported-post identifier, empty for loose documents
}

// Result carries the serialized header text. Degraded is set when the rich
// block failed validation and the minimal fallback was substituted; Reason
// holds the parse error. Callers extract Text either way.
type Result struct {
	Text     string
	Degraded bool
	Reason   string
}

var (
	emptySrcAttrRe    = regexp.MustCompile(`src\s*=\s*>`)
	danglingSrcAttrRe = regexp.MustCompile(`src\s*=\s*$`)
	markupTagRe       = regexp.MustCompile(`<[^>]+>`)
	attrQuoteRe       = regexp.MustCompile(`="([^"]*)"`)

	completeLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	truncatedLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\.{3,}`)
	unclosedLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\([^)]*$`)
	danglingLinkRe  = regexp.MustCompile(`\[([^\]]+)\]\([^)]*`)

	wsRe      = regexp.MustCompile(`\s+`)
	controlRe = regexp.MustCompile("[\x00-\x08\x0b-\x1f\x7f]")
)

// Build assembles the front matter block for f and validates it by parsing
// it back. On validation failure it returns the minimal fallback, which
// always parses.
func Build(f Fields) Result {
	lines := []string{
		"---",
		"title: " + quoteValue(f.Title),
		"subtitle: " + quoteValue(stripMarkdownLinks(neutralizeMarkup(f.Subtitle))),
		"category: " + quoteValue(f.Category),
		"tags: " + quoteTags(f.Tags),
		"date: " + quoteValue(f.Date),
		"type: " + quoteValue(f.Type),
	}
	if f.SourceID != "" {
		lines = append(lines, "wordpress_id: "+f.SourceID)
	}
	lines = append(lines, "---")

	text := strings.Join(lines, "\n") + "\n\n"
	if err := Validate(text); err != nil {
		return Result{Text: fallback(f), Degraded: true, Reason: err.Error()}
	}
	return Result{Text: text}
}

// Validate parses block back as structured front matter and reports any
// failure.
func Validate(block string) error {
	var parsed map[string]any
	if _, err := frontmatter.Parse(strings.NewReader(block), &parsed); err != nil {
		return fmt.Errorf("header: parse back: %w", err)
	}
	return nil
}

// quoteValue unescapes character references, trims, and picks a quoting
// strategy that keeps the value inside a single scalar: a value holding only
// double quotes is wrapped in single quotes unescaped, only single quotes in
// double quotes unescaped, anything else in double quotes with backslashes
// and double quotes escaped. Empty values serialize bare.
func quoteValue(s string) string {
	s = strings.TrimSpace(html.UnescapeString(s))
	if s == "" {
		return ""
	}
	hasDouble := strings.Contains(s, `"`)
	hasSingle := strings.Contains(s, "'")
	if hasDouble && !hasSingle {
		return "'" + s + "'"
	}
	if hasSingle && !hasDouble {
		return `"` + s + `"`
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// neutralizeMarkup rewrites embedded tags so they cannot terminate the
// enclosing scalar: malformed empty src attributes are repaired and
// double-quoted attribute values become single-quoted.
func neutralizeMarkup(s string) string {
	if s == "" {
		return ""
	}
	s = emptySrcAttrRe.ReplaceAllString(s, `src="">`)
	s = danglingSrcAttrRe.ReplaceAllString(s, `src=""`)
	return markupTagRe.ReplaceAllStringFunc(s, func(tag string) string {
		return attrQuoteRe.ReplaceAllString(tag, "='$1'")
	})
}

// stripMarkdownLinks reduces markdown link syntax to the link's visible
// text: complete links, then truncated links, then any residual
// bracket+paren remnants, in that order.
func stripMarkdownLinks(s string) string {
	if s == "" {
		return ""
	}
	s = completeLinkRe.ReplaceAllString(s, "$1")
	s = truncatedLinkRe.ReplaceAllString(s, "$1")
	s = unclosedLinkRe.ReplaceAllString(s, "$1")
	s = danglingLinkRe.ReplaceAllString(s, "$1")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func quoteTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = quoteValue(t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// fallback builds the minimal header: title (strictly sanitized, or the
// literal fallback when empty), empty subtitle and category, empty tags,
// the original date, and the type marker.
func fallback(f Fields) string {
	title := strings.TrimSpace(controlRe.ReplaceAllString(html.UnescapeString(f.Title), " "))
	title = strings.ReplaceAll(title, "\n", " ")
	title = strings.ReplaceAll(title, "\r", " ")
	if title == "" {
		title = FallbackTitle
	}
	title = strings.ReplaceAll(title, `\`, `\\`)
	title = strings.ReplaceAll(title, `"`, `\"`)

	date := controlRe.ReplaceAllString(f.Date, "")
	date = strings.ReplaceAll(strings.ReplaceAll(date, "\n", ""), "\r", "")

	lines := []string{
		"---",
		`title: "` + title + `"`,
		`subtitle: ""`,
		`category: ""`,
		"tags: []",
		"date: " + quoteValue(date),
		"type: " + quoteValue(f.Type),
		"---",
	}
	return strings.Join(lines, "\n") + "\n\n"
}
