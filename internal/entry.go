package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/starford/laguz/internal/dedupe"
	"github.com/starford/laguz/internal/ledger"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/pipeline"
	"github.com/starford/laguz/internal/source"
	"github.com/starford/laguz/internal/storage"
)

// Run executes the full migration with the given options: load the exported
// posts, deduplicate, convert and write the primary corpus, then reconcile
// the loose documents. Only input-set failures abort the run; everything
// else degrades per record.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("Configuration loaded",
		slog.String("posts_json", cfg.Source.PostsJSON),
		slog.String("documents_dir", cfg.Source.DocumentsDir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("ledger_db", cfg.Output.LedgerDB),
		slog.Int("workers", cfg.Pipeline.Workers))

	// Load the primary input; failure here is run-fatal.
	records, err := source.LoadPosts(cfg.Source.PostsJSON)
	if err != nil {
		return err
	}
	logger.Info("Posts loaded", slog.Int("count", len(records)))

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := storage.NewFS(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("init output storage: %w", err)
	}

	db, err := ledger.Open(cfg.Output.LedgerDB)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	defer db.Close()

	runID := uuid.NewString()
	startedAt := time.Now()
	if err := db.BeginRun(runID, startedAt); err != nil {
		return err
	}

	// Step 1: deduplicate.
	unique, entries := dedupe.Deduplicate(records)
	logger.Info("Deduplication complete",
		slog.Int("unique", len(unique)),
		slog.Int("duplicates", len(entries)))
	if err := db.AddDuplicates(runID, entries); err != nil {
		return err
	}
	if err := dedupe.NewReport(entries).WriteFile(cfg.Output.ReportJSON); err != nil {
		logger.Warn("report write failed", slog.String("error", err.Error()))
	}

	// Step 2: regenerate the output corpus.
	if cfg.Pipeline.CleanOutput {
		if err := out.Clean(); err != nil {
			return err
		}
		logger.Info("Removed existing output documents")
	}

	p := pipeline.New(out, db, logger, runID,
		cfg.Pipeline.Workers, cfg.Pipeline.ExcerptMaxLen,
		cfg.Pipeline.MinBodyLen, cfg.Pipeline.SubtitleMaxLen)

	stats := p.ProcessPosts(ctx, unique)
	logger.Info("Post conversion complete",
		slog.Int("written", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.Int("errors", stats.Errors))

	// Step 3: reconcile loose documents, when a directory is configured.
	if cfg.Source.DocumentsDir != "" {
		docStats, err := reconcileDocuments(cfg, records, p, logger)
		if err != nil {
			logger.Warn("document reconciliation skipped", slog.String("error", err.Error()))
		} else {
			stats.Add(docStats)
		}
	}

	if err := db.FinishRun(ledger.RunSummary{
		ID:         runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Loaded:     len(records),
		Unique:     len(unique),
		Duplicates: len(entries),
		Written:    stats.Written,
		Skipped:    stats.Skipped,
		Errors:     stats.Errors,
	}); err != nil {
		return err
	}

	logger.Info("Run complete",
		slog.String("run_id", runID),
		slog.Int("written", stats.Written),
		slog.Int("skipped", stats.Skipped),
		slog.Int("degraded", stats.Degraded),
		slog.Int("errors", stats.Errors))
	return nil
}

// reconcileDocuments scans the loose-document directory and processes the
// documents that match no exported post. A missing directory is not fatal:
// the secondary collection is optional.
func reconcileDocuments(cfg *Config, records []models.Record, p *pipeline.Pipeline, logger *slog.Logger) (pipeline.Stats, error) {
	docStore, err := storage.NewFS(cfg.Source.DocumentsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("No loose-document directory", slog.String("dir", cfg.Source.DocumentsDir))
			return pipeline.Stats{}, nil
		}
		return pipeline.Stats{}, err
	}

	docs, err := source.ScanDocuments(docStore)
	if err != nil {
		return pipeline.Stats{}, err
	}

	unmatched := source.Unmatched(docs, records)
	logger.Info("Loose documents scanned",
		slog.Int("total", len(docs)),
		slog.Int("unmatched", len(unmatched)))

	return p.ProcessDocuments(unmatched), nil
}
