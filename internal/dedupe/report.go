package dedupe

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/starford/laguz/internal/models"
)

// Report wraps the duplicate ledger of one pass for the boundary writer.
type Report struct {
	Timestamp       string                  `json:"timestamp"`
	TotalDuplicates int                     `json:"total_duplicates"`
	Duplicates      []models.DuplicateEntry `json:"duplicates"`
}

// NewReport builds a report around the given ledger entries.
func NewReport(entries []models.DuplicateEntry) Report {
	if entries == nil {
		entries = []models.DuplicateEntry{}
	}
	return Report{
		Timestamp:       time.Now().Format(time.RFC3339),
		TotalDuplicates: len(entries),
		Duplicates:      entries,
	}
}

// WriteFile serializes the report as indented JSON at path.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("dedupe: marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dedupe: write report: %w", err)
	}
	return nil
}
