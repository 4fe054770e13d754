package source

import (
	"regexp"
	"strings"

	"github.com/starford/laguz/internal/models"
)

var (
	nonCompareRe = regexp.MustCompile(`[^\w\s-]`)
	compareWsRe  = regexp.MustCompile(`\s+`)
)

// NormalizeTitle reduces a title for cross-source comparison: underscores
// and hyphens become spaces, punctuation is dropped, case and whitespace are
// normalized.
func NormalizeTitle(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = nonCompareRe.ReplaceAllString(strings.ToLower(s), "")
	s = strings.ReplaceAll(s, "-", " ")
	s = compareWsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Unmatched returns the loose documents that do not correspond to any
// exported post, compared by normalized filename-derived title and by slug.
// These are the documents the pipeline re-headers with the secondary
// provenance marker.
func Unmatched(docs []Document, posts []models.Record) []Document {
	titles := make(map[string]struct{}, len(posts))
	slugs := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if t := NormalizeTitle(p.Title); t != "" {
			titles[t] = struct{}{}
		}
		if s := strings.TrimSpace(p.Slug); s != "" {
			slugs[s] = struct{}{}
		}
	}

	var out []Document
	for _, d := range docs {
		if _, ok := titles[NormalizeTitle(TitleFromFilename(d.Filename))]; ok {
			continue
		}
		if _, ok := slugs[slugFromFilename(d.Filename)]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

// slugFromFilename returns the lower-cased stem after the date prefix, which
// is how exported posts name their slugs.
func slugFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, ".md")
	parts := strings.SplitN(stem, "-", 4)
	if len(parts) == 4 {
		return strings.ToLower(parts[3])
	}
	return ""
}
