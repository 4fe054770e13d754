package assemble

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRe  = regexp.MustCompile(`[^\w\s-]`)
	slugSepRe  = regexp.MustCompile(`[-\s]+`)
	multiSepRe = regexp.MustCompile(`[-_]{2,}`)
	badFileRe  = regexp.MustCompile(`[^\w\-.]`)
)

// asciiFold decomposes characters and drops their combining marks, reducing
// accented letters to their ASCII base.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slugify reduces a title to a URL-friendly slug: diacritics folded to
// ASCII, non-word characters removed, separator runs collapsed to single
// hyphens. An empty result becomes the "untitled" sentinel.
func Slugify(title string) string {
	if title == "" {
		return "untitled"
	}
	s := strings.ToLower(foldASCII(title))
	s = nonSlugRe.ReplaceAllString(s, "")
	s = slugSepRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

func foldASCII(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeFilename normalizes a candidate markdown filename: separator runs
// collapse to one hyphen, remaining problematic characters become hyphens,
// and an empty stem falls back to the "untitled" sentinel.
func SanitizeFilename(name string) string {
	stem := strings.TrimSuffix(name, ".md")
	stem = multiSepRe.ReplaceAllString(stem, "-")
	stem = badFileRe.ReplaceAllString(stem, "-")
	stem = strings.Trim(stem, "-")
	if stem == "" {
		stem = "untitled"
	}
	return stem + ".md"
}

// NormalizeDate reduces a loosely-ISO timestamp to YYYY-MM-DD. Values that
// fail to parse fall back to their first ten characters; empty input stays
// empty.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Format("2006-01-02")
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
