// Package internal provides the application configuration and runtime
// wiring.
package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Source   SourceConfig      `yaml:"source"`
	Output   OutputConfig      `yaml:"output"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Pipeline.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SourceConfig locates the input record set.
type SourceConfig struct {
	// PostsJSON is the exported post dataset. Required; a run cannot
	// start without it.
	PostsJSON string `yaml:"posts_json"`
	// DocumentsDir holds the secondary loose markdown documents. Optional;
	// when empty or missing the reconciliation step is skipped.
	DocumentsDir string `yaml:"documents_dir"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PostsJSON, validation.Required),
	)
}

// OutputConfig locates the output corpus and run records.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	LedgerDB   string `yaml:"ledger_db"`
	ReportJSON string `yaml:"report_json"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.LedgerDB, validation.Required),
		validation.Field(&c.ReportJSON, validation.Required),
	)
}

// PipelineConfig holds the transformation thresholds.
type PipelineConfig struct {
	ExcerptMaxLen  int `yaml:"excerpt_max_len"`
	MinBodyLen     int `yaml:"min_body_len"`
	SubtitleMaxLen int `yaml:"subtitle_max_len"`
	// Workers bounds the parallel markup-conversion stage. Deduplication
	// and assembly always run sequentially; only conversion fans out.
	Workers     int  `yaml:"workers"`
	CleanOutput bool `yaml:"clean_output"`
}

// Validate validates the pipeline configuration.
func (c *PipelineConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ExcerptMaxLen, validation.Required, validation.Min(1)),
		validation.Field(&c.MinBodyLen, validation.Required, validation.Min(1)),
		validation.Field(&c.SubtitleMaxLen, validation.Required, validation.Min(1)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Source: SourceConfig{
			PostsJSON:    "./json/wp_posts.json",
			DocumentsDir: "./posts",
		},
		Output: OutputConfig{
			Dir:        "./output",
			LedgerDB:   "./laguz.db",
			ReportJSON: "./output/deduplication_report.json",
		},
		Pipeline: PipelineConfig{
			ExcerptMaxLen:  200,
			MinBodyLen:     10,
			SubtitleMaxLen: 100,
			Workers:        1,
			CleanOutput:    true,
		},
	}
}
