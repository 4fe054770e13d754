// Package assemble combines headers and converted bodies into named output
// documents.
package assemble

import (
	"fmt"
	"strings"

	"github.com/starford/laguz/internal/header"
	"github.com/starford/laguz/internal/models"
)

// Defaults for the assembler thresholds.
const (
	DefaultMinBodyLen     = 10
	DefaultSubtitleMaxLen = 100

	subtitleScanLines = 5
	subtitleMinLen    = 10
)

// Assembler builds output documents and tracks the filenames already
// assigned in the current run so collisions get numeric suffixes. It is not
// safe for concurrent use; assembly is an ordered sequential stage.
type Assembler struct {
	minBodyLen     int
	subtitleMaxLen int
	used           map[string]struct{}
}

// New returns an assembler with the given thresholds; zero values select the
// defaults.
func New(minBodyLen, subtitleMaxLen int) *Assembler {
	if minBodyLen <= 0 {
		minBodyLen = DefaultMinBodyLen
	}
	if subtitleMaxLen <= 0 {
		subtitleMaxLen = DefaultSubtitleMaxLen
	}
	return &Assembler{
		minBodyLen:     minBodyLen,
		subtitleMaxLen: subtitleMaxLen,
		used:           make(map[string]struct{}),
	}
}

// AssemblePost builds the output document for an exported record and its
// converted body. A nil result means the record is not publishable (empty or
// too-short body); that is a skip, not an error.
func (a *Assembler) AssemblePost(rec models.Record, body models.ConvertedBody) *models.OutputDocument {
	text := strings.TrimSpace(body.Text)
	if len(text) < a.minBodyLen {
		return nil
	}

	h := header.Build(a.fields(rec, text))
	name := a.claim(postFilename(rec), "")

	return &models.OutputDocument{
		Filename: name,
		Header:   h.Text,
		Body:     text,
		Type:     rec.Provenance,
		Degraded: h.Degraded,
		Reason:   h.Reason,
	}
}

// AssembleDocument re-headers a loose document, keeping its body as-is. The
// output filename derives from the source filename; collisions get the
// secondary suffix.
func (a *Assembler) AssembleDocument(rec models.Record, sourceName string) *models.OutputDocument {
	text := strings.TrimSpace(rec.BodyMarkup)

	h := header.Build(a.fields(rec, text))
	name := a.claim(sourceName, "-"+string(models.ProvenanceSecondary))

	return &models.OutputDocument{
		Filename: name,
		Header:   h.Text,
		Body:     text,
		Type:     rec.Provenance,
		Degraded: h.Degraded,
		Reason:   h.Reason,
	}
}

func (a *Assembler) fields(rec models.Record, body string) header.Fields {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = "Untitled"
	}
	return header.Fields{
		Title:    title,
		Subtitle: a.subtitle(body),
		Category: category(rec.Categories),
		Tags:     rec.Tags,
		Date:     NormalizeDate(rec.PublishedAt),
		Type:     string(rec.Provenance),
		SourceID: rec.ID,
	}
}

// subtitle returns the first substantive non-heading line among the body's
// first few lines, truncated with an ellipsis when over the limit.
func (a *Assembler) subtitle(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) > subtitleScanLines {
		lines = lines[:subtitleScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || len(line) <= subtitleMinLen {
			continue
		}
		runes := []rune(line)
		if len(runes) > a.subtitleMaxLen {
			return string(runes[:a.subtitleMaxLen]) + "..."
		}
		return line
	}
	return ""
}

func category(categories []string) string {
	for _, c := range categories {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return "uncategorized"
}

// postFilename derives `<date>-<slug>.md` with sentinels for missing parts.
func postFilename(rec models.Record) string {
	date := NormalizeDate(rec.PublishedAt)
	if len(date) < 10 {
		date = "unknown-date"
	}
	return date + "-" + Slugify(rec.Title) + ".md"
}

// claim sanitizes name and reserves it for this run. On collision with an
// already-assigned filename it appends suffix plus an incrementing counter
// before the extension.
func (a *Assembler) claim(name, suffix string) string {
	name = SanitizeFilename(name)
	stem := strings.TrimSuffix(name, ".md")
	candidate := name
	for i := 1; ; i++ {
		if _, taken := a.used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s%s-%d.md", stem, suffix, i)
	}
	a.used[candidate] = struct{}{}
	return candidate
}
