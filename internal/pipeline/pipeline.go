// Package pipeline orchestrates the migration steps over loaded records:
// deduplication, conversion, assembly, and the boundary writes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/starford/laguz/internal/assemble"
	"github.com/starford/laguz/internal/fingerprint"
	"github.com/starford/laguz/internal/ledger"
	"github.com/starford/laguz/internal/markup"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/source"
	"github.com/starford/laguz/internal/storage"
)

// Stats counts the outcomes of one run.
type Stats struct {
	Written  int
	Skipped  int
	Errors   int
	Degraded int
}

// Add merges other into s.
func (s *Stats) Add(other Stats) {
	s.Written += other.Written
	s.Skipped += other.Skipped
	s.Errors += other.Errors
	s.Degraded += other.Degraded
}

// Pipeline processes records into output documents. Conversion may run in
// parallel (it is record-independent); assembly and writing stay sequential
// because filename collision suffixes depend on processing order.
type Pipeline struct {
	out           storage.Provider
	rec           ledger.Recorder
	logger        *slog.Logger
	runID         string
	workers       int
	excerptMaxLen int
	assembler     *assemble.Assembler
}

// New builds a pipeline writing through out and recording into rec.
func New(out storage.Provider, rec ledger.Recorder, logger *slog.Logger, runID string,
	workers, excerptMaxLen, minBodyLen, subtitleMaxLen int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		out:           out,
		rec:           rec,
		logger:        logger,
		runID:         runID,
		workers:       workers,
		excerptMaxLen: excerptMaxLen,
		assembler:     assemble.New(minBodyLen, subtitleMaxLen),
	}
}

// ProcessPosts converts and writes the deduplicated exported records, in
// order. A failure in one record skips that record and continues.
func (p *Pipeline) ProcessPosts(ctx context.Context, records []models.Record) Stats {
	bodies := p.convertAll(ctx, records)

	var stats Stats
	for i, rec := range records {
		err := p.guard(rec.ID, func() error {
			doc := p.assembler.AssemblePost(rec, bodies[i])
			if doc == nil {
				stats.Skipped++
				return nil
			}
			return p.write(doc, &stats)
		})
		if err != nil {
			p.logger.Warn("post failed",
				slog.String("id", rec.ID),
				slog.String("error", err.Error()))
			stats.Errors++
		}
	}
	return stats
}

// ProcessDocuments re-headers unmatched loose documents and writes them.
func (p *Pipeline) ProcessDocuments(docs []source.Document) Stats {
	var stats Stats
	for _, d := range docs {
		err := p.guard(d.Filename, func() error {
			doc := p.assembler.AssembleDocument(d.Record, d.Filename)
			return p.write(doc, &stats)
		})
		if err != nil {
			p.logger.Warn("document failed",
				slog.String("filename", d.Filename),
				slog.String("error", err.Error()))
			stats.Errors++
		}
	}
	return stats
}

// convertAll runs the markup conversion stage, fanning out across workers
// when configured. Result order matches input order either way.
func (p *Pipeline) convertAll(ctx context.Context, records []models.Record) []models.ConvertedBody {
	bodies := make([]models.ConvertedBody, len(records))
	if p.workers <= 1 {
		for i, rec := range records {
			bodies[i] = markup.Convert(rec.BodyMarkup, p.excerptMaxLen)
		}
		return bodies
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			bodies[i] = markup.Convert(rec.BodyMarkup, p.excerptMaxLen)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; conversion is total
	return bodies
}

func (p *Pipeline) write(doc *models.OutputDocument, stats *Stats) error {
	if doc.Degraded {
		stats.Degraded++
		p.logger.Warn("header fallback substituted",
			slog.String("filename", doc.Filename),
			slog.String("reason", doc.Reason))
	}
	content := []byte(doc.Content())
	if err := p.out.Write(doc.Filename, content); err != nil {
		return err
	}
	if err := p.rec.AddDocument(p.runID, *doc, fingerprint.Sum(content)); err != nil {
		return err
	}
	p.logger.Debug("wrote document", slog.String("filename", doc.Filename))
	stats.Written++
	return nil
}

// guard runs fn and converts a panic into a per-record error so one bad
// record cannot abort the run.
func (p *Pipeline) guard(id string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline: record %s: panic: %v", id, r)
		}
	}()
	return fn()
}
