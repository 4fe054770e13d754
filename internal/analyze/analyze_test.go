package analyze

import (
	"strings"
	"testing"

	"github.com/starford/laguz/internal/models"
)

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Posts != 0 || sum.AvgContentLen != 0 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSummarize_Counts(t *testing.T) {
	long := strings.Repeat("x", 300)
	records := []models.Record{
		{Title: "Same Title", Slug: "a", BodyMarkup: long},
		{Title: "same title ", Slug: "b", BodyMarkup: long + "different tail"},
		{Title: "Other", Slug: "a", BodyMarkup: "short"},
		{Title: "Empty", Slug: "", BodyMarkup: "  "},
	}

	sum := Summarize(records)
	if sum.Posts != 4 {
		t.Errorf("posts = %d", sum.Posts)
	}
	if sum.DuplicateTitles != 1 {
		t.Errorf("duplicate titles = %d, want 1 (case and whitespace folded)", sum.DuplicateTitles)
	}
	if sum.DuplicateSlugs != 1 {
		t.Errorf("duplicate slugs = %d, want 1", sum.DuplicateSlugs)
	}
	if sum.DuplicateContent != 1 {
		t.Errorf("duplicate content prefixes = %d, want 1", sum.DuplicateContent)
	}
	if sum.EmptyContent != 1 || sum.ShortContent != 1 {
		t.Errorf("empty = %d short = %d", sum.EmptyContent, sum.ShortContent)
	}
	if sum.MinContentLen != 0 || sum.MaxContentLen != 314 {
		t.Errorf("min = %d max = %d", sum.MinContentLen, sum.MaxContentLen)
	}
}

func TestSummarize_EmptyKeysNeverCollide(t *testing.T) {
	records := []models.Record{
		{Title: "", Slug: "", BodyMarkup: ""},
		{Title: " ", Slug: " ", BodyMarkup: " "},
	}
	sum := Summarize(records)
	if sum.DuplicateTitles != 0 || sum.DuplicateSlugs != 0 || sum.DuplicateContent != 0 {
		t.Errorf("summary = %+v, want no collisions on empty keys", sum)
	}
}
