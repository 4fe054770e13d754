package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/laguz/internal"
	"github.com/starford/laguz/internal/analyze"
	"github.com/starford/laguz/internal/ledger"
	"github.com/starford/laguz/internal/source"
	pkgconfig "github.com/starford/laguz/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOrDefault(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runAnalyze(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	records, err := source.LoadPosts(cfg.Source.PostsJSON)
	if err != nil {
		return err
	}

	sum := analyze.Summarize(records)
	fmt.Printf("Posts:                    %d\n", sum.Posts)
	fmt.Printf("Duplicate titles:         %d\n", sum.DuplicateTitles)
	fmt.Printf("Duplicate slugs:          %d\n", sum.DuplicateSlugs)
	fmt.Printf("Duplicate content starts: %d\n", sum.DuplicateContent)
	fmt.Printf("Empty content:            %d\n", sum.EmptyContent)
	fmt.Printf("Short content (<100):     %d\n", sum.ShortContent)
	fmt.Printf("Content length avg/min/max: %d/%d/%d\n",
		sum.AvgContentLen, sum.MinContentLen, sum.MaxContentLen)
	return nil
}

func runReport(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := ledger.Open(cfg.Output.LedgerDB)
	if err != nil {
		return err
	}
	defer db.Close()

	sum, err := db.LastRun()
	if err != nil {
		return err
	}
	fmt.Printf("Run %s\n", sum.ID)
	fmt.Printf("  started:    %s\n", sum.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  finished:   %s\n", sum.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  loaded:     %d\n", sum.Loaded)
	fmt.Printf("  unique:     %d\n", sum.Unique)
	fmt.Printf("  duplicates: %d\n", sum.Duplicates)
	fmt.Printf("  written:    %d\n", sum.Written)
	fmt.Printf("  skipped:    %d\n", sum.Skipped)
	fmt.Printf("  errors:     %d\n", sum.Errors)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "laguz",
		Usage: "Migrate an exported blog into a normalized Markdown corpus with YAML front matter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Deduplicate the exported posts, convert them to Markdown, and reconcile loose documents",
				Action: runMigrate,
			},
			{
				Name:   "analyze",
				Usage:  "Print duplicate and content statistics for the raw input set",
				Action: runAnalyze,
			},
			{
				Name:   "report",
				Usage:  "Print the summary of the last recorded run",
				Action: runReport,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
