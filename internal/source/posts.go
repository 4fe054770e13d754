// Package source loads the input record set: the exported post dataset and
// the secondary collection of loose markdown documents.
package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/starford/laguz/internal/models"
)

type exportedPost struct {
	ID         json.Number `json:"id"`
	Date       string      `json:"date"`
	Slug       string      `json:"slug"`
	Title      rendered    `json:"title"`
	Content    rendered    `json:"content"`
	Categories []any       `json:"categories"`
	Tags       []any       `json:"tags"`
}

type rendered struct {
	Rendered string `json:"rendered"`
}

// LoadPosts reads the exported post dataset from a JSON file. A read or
// decode failure here is run-fatal: no output can be produced without the
// primary input.
func LoadPosts(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open posts file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var posts []exportedPost
	if err := dec.Decode(&posts); err != nil {
		return nil, fmt.Errorf("source: decode posts: %w", err)
	}

	records := make([]models.Record, 0, len(posts))
	for _, p := range posts {
		records = append(records, models.Record{
			ID:          p.ID.String(),
			Title:       p.Title.Rendered,
			BodyMarkup:  p.Content.Rendered,
			PublishedAt: p.Date,
			Slug:        p.Slug,
			Categories:  stringify(p.Categories),
			Tags:        stringify(p.Tags),
			Provenance:  models.ProvenancePrimary,
		})
	}
	return records, nil
}

// stringify renders a mixed JSON array as strings; exports store category
// and tag references as either names or numeric identifiers.
func stringify(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case json.Number:
			out = append(out, t.String())
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
