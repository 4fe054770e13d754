package source

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/storage"
)

// Document is a loose markdown document from the secondary collection.
type Document struct {
	Filename string
	Record   models.Record
}

// looseMeta is the front matter a loose document may already carry.
type looseMeta struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Date     string   `yaml:"date"`
}

// ScanDocuments reads every markdown file under the store and builds a
// secondary-provenance record for each. Existing front matter is preferred
// for title and date; a file with invalid front matter is treated as body
// only. Missing fields fall back to the `YYYY-MM-DD-Title.md` filename
// convention.
func ScanDocuments(store storage.Provider) ([]Document, error) {
	paths, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("source: scan documents: %w", err)
	}

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		data, err := store.Read(p)
		if err != nil {
			return nil, fmt.Errorf("source: read document %s: %w", p, err)
		}
		docs = append(docs, Document{
			Filename: baseName(p),
			Record:   buildLooseRecord(baseName(p), data),
		})
	}
	return docs, nil
}

func buildLooseRecord(filename string, data []byte) models.Record {
	var meta looseMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		// Invalid front matter: the whole file is body.
		meta = looseMeta{}
		body = data
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = TitleFromFilename(filename)
	}
	date := strings.TrimSpace(meta.Date)
	if date == "" {
		date = DateFromFilename(filename)
	}

	var categories []string
	if c := strings.TrimSpace(meta.Category); c != "" {
		categories = []string{c}
	}

	return models.Record{
		Title:       title,
		BodyMarkup:  strings.TrimSpace(string(body)),
		PublishedAt: date,
		Categories:  categories,
		Tags:        meta.Tags,
		Provenance:  models.ProvenanceSecondary,
	}
}

// TitleFromFilename extracts a display title from a `YYYY-MM-DD-Title-Here.md`
// name, falling back to the whole stem when no date prefix is present.
func TitleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filename, ".md")
	parts := strings.SplitN(stem, "-", 4)
	if len(parts) == 4 {
		return strings.ReplaceAll(parts[3], "-", " ")
	}
	return strings.ReplaceAll(stem, "-", " ")
}

// DateFromFilename extracts the YYYY-MM-DD prefix from a filename, or empty
// when the leading segments are not numeric.
func DateFromFilename(filename string) string {
	parts := strings.SplitN(strings.TrimSuffix(filename, ".md"), "-", 4)
	if len(parts) < 3 {
		return ""
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
