// Package models defines the domain types for Laguz.
package models

// Provenance marks where a record originated; its value becomes the `type`
// field of the output header.
type Provenance string

const (
	// ProvenancePrimary marks records loaded from the exported post dataset.
	ProvenancePrimary Provenance = "wp"
	// ProvenanceSecondary marks loose documents reconciled into the corpus.
	ProvenanceSecondary Provenance = "rain"
)

// Record is one unit of source content. Records are immutable once loaded;
// the pipeline only derives new values from them.
type Record struct {
	ID          string
	Title       string
	BodyMarkup  string
	PublishedAt string
	Slug        string
	Categories  []string
	Tags        []string
	Provenance  Provenance
}

// DuplicateKind classifies a deduplication decision.
type DuplicateKind string

const (
	ContentDuplicate DuplicateKind = "content_duplicate"
	TitleDuplicate   DuplicateKind = "title_duplicate"
)

// DuplicateAction says which side of a title collision survived.
type DuplicateAction string

const (
	KeptNewer DuplicateAction = "kept_newer"
	KeptOlder DuplicateAction = "kept_older"
)

// DuplicateEntry records one resolution decision. Entries are appended to the
// run ledger during a single deduplication pass and never mutated afterward.
type DuplicateEntry struct {
	Kind          DuplicateKind   `json:"type"`
	SurvivorID    string          `json:"original_id"`
	SurvivorDate  string          `json:"original_date"`
	DiscardedID   string          `json:"duplicate_id"`
	DiscardedDate string          `json:"duplicate_date"`
	Title         string          `json:"title"`
	Action        DuplicateAction `json:"action,omitempty"`
}

// ConvertedBody is the plain-text result of markup conversion, derived fresh
// per record.
type ConvertedBody struct {
	Text    string
	Excerpt string
}

// OutputDocument is a serialized header plus converted body, ready for the
// boundary writer.
type OutputDocument struct {
	Filename string
	Header   string
	Body     string
	Type     Provenance
	// Degraded is set when the rich header failed validation and the
	// minimal fallback was substituted; Reason carries the parse error.
	Degraded bool
	Reason   string
}

// Content returns the full file content: header block then body.
func (d OutputDocument) Content() string {
	return d.Header + d.Body
}
