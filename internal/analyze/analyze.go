// Package analyze computes duplicate and content statistics over the raw
// input record set, before any deduplication runs.
package analyze

import (
	"strings"

	"github.com/starford/laguz/internal/fingerprint"
	"github.com/starford/laguz/internal/models"
)

// contentPrefixLen bounds the content prefix used for near-duplicate
// grouping; full-fingerprint grouping would miss entries that diverge only
// in trailing boilerplate.
const contentPrefixLen = 100

// Summary aggregates the input-corpus statistics.
type Summary struct {
	Posts            int
	DuplicateTitles  int
	DuplicateSlugs   int
	DuplicateContent int
	EmptyContent     int
	ShortContent     int
	AvgContentLen    int
	MinContentLen    int
	MaxContentLen    int
}

// Summarize groups records by normalized title, slug, and content prefix,
// and collects content-length statistics.
func Summarize(records []models.Record) Summary {
	sum := Summary{Posts: len(records)}
	if len(records) == 0 {
		return sum
	}

	titles := make(map[string]int)
	slugs := make(map[string]int)
	prefixes := make(map[string]int)

	total := 0
	sum.MinContentLen = -1
	for _, r := range records {
		titles[fingerprint.TitleKey(r)]++
		if s := strings.TrimSpace(r.Slug); s != "" {
			slugs[s]++
		}
		prefixes[contentPrefix(r.BodyMarkup)]++

		n := len(strings.TrimSpace(r.BodyMarkup))
		total += n
		switch {
		case n == 0:
			sum.EmptyContent++
		case n < 100:
			sum.ShortContent++
		}
		if sum.MinContentLen < 0 || n < sum.MinContentLen {
			sum.MinContentLen = n
		}
		if n > sum.MaxContentLen {
			sum.MaxContentLen = n
		}
	}

	sum.DuplicateTitles = countCollisions(titles)
	sum.DuplicateSlugs = countCollisions(slugs)
	sum.DuplicateContent = countCollisions(prefixes)
	sum.AvgContentLen = total / len(records)
	return sum
}

func contentPrefix(body string) string {
	runes := []rune(body)
	if len(runes) > contentPrefixLen {
		runes = runes[:contentPrefixLen]
	}
	return strings.TrimSpace(string(runes))
}

func countCollisions(groups map[string]int) int {
	n := 0
	for key, count := range groups {
		if key != "" && count > 1 {
			n++
		}
	}
	return n
}
