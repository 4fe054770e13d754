package ledger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/laguz/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLastRun_Empty(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.LastRun(); !errors.Is(err, ErrNoRuns) {
		t.Errorf("err = %v, want ErrNoRuns", err)
	}
}

func TestRunRoundtrip(t *testing.T) {
	db := openTestDB(t)
	started := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)

	if err := db.BeginRun("run-1", started); err != nil {
		t.Fatal(err)
	}
	if err := db.FinishRun(RunSummary{
		ID:         "run-1",
		FinishedAt: started.Add(time.Minute),
		Loaded:     10,
		Unique:     8,
		Duplicates: 2,
		Written:    7,
		Skipped:    1,
		Errors:     0,
	}); err != nil {
		t.Fatal(err)
	}

	sum, err := db.LastRun()
	if err != nil {
		t.Fatal(err)
	}
	if sum.ID != "run-1" || sum.Loaded != 10 || sum.Unique != 8 || sum.Duplicates != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Written != 7 || sum.Skipped != 1 || sum.Errors != 0 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestLastRun_PicksNewest(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := db.BeginRun("old", base); err != nil {
		t.Fatal(err)
	}
	if err := db.BeginRun("new", base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	sum, err := db.LastRun()
	if err != nil {
		t.Fatal(err)
	}
	if sum.ID != "new" {
		t.Errorf("last run = %q, want new", sum.ID)
	}
	// Unfinished runs fall back to their start time.
	if !sum.FinishedAt.Equal(sum.StartedAt) {
		t.Errorf("finished = %v, want started %v", sum.FinishedAt, sum.StartedAt)
	}
}

func TestAddDuplicates(t *testing.T) {
	db := openTestDB(t)
	if err := db.BeginRun("run-1", time.Now()); err != nil {
		t.Fatal(err)
	}

	entries := []models.DuplicateEntry{
		{Kind: models.ContentDuplicate, SurvivorID: "1", DiscardedID: "2", Title: "x"},
		{Kind: models.TitleDuplicate, SurvivorID: "3", SurvivorDate: "2021-01-01",
			DiscardedID: "4", DiscardedDate: "2020-01-01", Title: "y", Action: models.KeptNewer},
	}
	if err := db.AddDuplicates("run-1", entries); err != nil {
		t.Fatal(err)
	}

	got, err := db.RunDuplicates("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Kind != models.ContentDuplicate || got[0].SurvivorID != "1" {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Action != models.KeptNewer || got[1].DiscardedDate != "2020-01-01" {
		t.Errorf("second entry = %+v", got[1])
	}
}

func TestAddDuplicates_EmptyIsNoop(t *testing.T) {
	db := openTestDB(t)
	if err := db.AddDuplicates("run-1", nil); err != nil {
		t.Errorf("empty insert should succeed: %v", err)
	}
}

func TestAddDocument(t *testing.T) {
	db := openTestDB(t)
	if err := db.BeginRun("run-1", time.Now()); err != nil {
		t.Fatal(err)
	}

	docs := []models.OutputDocument{
		{Filename: "a.md", Type: models.ProvenancePrimary},
		{Filename: "b.md", Type: models.ProvenanceSecondary, Degraded: true, Reason: "parse"},
	}
	for _, d := range docs {
		if err := db.AddDocument("run-1", d, "checksum"); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.RunDocuments("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a.md" || got[1] != "b.md" {
		t.Errorf("documents = %v", got)
	}
}
