// Package dedupe collapses repeated records using content fingerprints and a
// recency tie-break for same-title conflicts.
package dedupe

import (
	"github.com/starford/laguz/internal/fingerprint"
	"github.com/starford/laguz/internal/models"
)

// Deduplicate processes records in input order and returns the surviving
// unique set plus a ledger of every resolution decision.
//
// Policy, per record:
//  1. A record whose content fingerprint was already seen is discarded as a
//     content duplicate; content duplicates never replace the survivor.
//  2. A record whose title key collides with an earlier survivor replaces it
//     only when its publish date string compares strictly greater; the
//     replacement is appended at the position where it was accepted.
//  3. Otherwise the record is accepted as unique.
//
// The two lookup tables are local to one call; the pass is strictly
// sequential because its outcome depends on processing order.
func Deduplicate(records []models.Record) ([]models.Record, []models.DuplicateEntry) {
	seenContent := make(map[string]models.Record)
	seenTitles := make(map[string]models.Record)
	unique := make([]models.Record, 0, len(records))
	entries := make([]models.DuplicateEntry, 0)

	for _, r := range records {
		hash := fingerprint.Content(r)
		key := fingerprint.TitleKey(r)

		if survivor, ok := seenContent[hash]; ok {
			entries = append(entries, models.DuplicateEntry{
				Kind:          models.ContentDuplicate,
				SurvivorID:    survivor.ID,
				SurvivorDate:  survivor.PublishedAt,
				DiscardedID:   r.ID,
				DiscardedDate: r.PublishedAt,
				Title:         key,
			})
			continue
		}

		if key != "" {
			if survivor, ok := seenTitles[key]; ok {
				// Fixed-width ISO-like dates compare correctly as strings;
				// an empty date loses to any non-empty one.
				if r.PublishedAt > survivor.PublishedAt {
					unique = removeByID(unique, survivor.ID)
					unique = append(unique, r)
					seenTitles[key] = r
					seenContent[hash] = r
					entries = append(entries, models.DuplicateEntry{
						Kind:          models.TitleDuplicate,
						SurvivorID:    r.ID,
						SurvivorDate:  r.PublishedAt,
						DiscardedID:   survivor.ID,
						DiscardedDate: survivor.PublishedAt,
						Title:         key,
						Action:        models.KeptNewer,
					})
				} else {
					// The action names which date won, so the outcome is
					// order-independent: an incumbent that is strictly
					// newer still records kept_newer.
					action := models.KeptOlder
					if survivor.PublishedAt > r.PublishedAt {
						action = models.KeptNewer
					}
					entries = append(entries, models.DuplicateEntry{
						Kind:          models.TitleDuplicate,
						SurvivorID:    survivor.ID,
						SurvivorDate:  survivor.PublishedAt,
						DiscardedID:   r.ID,
						DiscardedDate: r.PublishedAt,
						Title:         key,
						Action:        action,
					})
				}
				continue
			}
		}

		seenContent[hash] = r
		if key != "" {
			seenTitles[key] = r
		}
		unique = append(unique, r)
	}

	return unique, entries
}

func removeByID(records []models.Record, id string) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
