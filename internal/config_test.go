package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/laguz/pkg/config"
)

func TestNewDefaultConfig_Validates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfig_RequiredFields(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Source.PostsJSON = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing posts_json")
	}

	cfg = NewDefaultConfig()
	cfg.Output.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing output dir")
	}

	cfg = NewDefaultConfig()
	cfg.Output.LedgerDB = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing ledger_db")
	}
}

func TestConfig_WorkerBounds(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Pipeline.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}

	cfg.Pipeline.Workers = 65
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for too many workers")
	}

	cfg.Pipeline.Workers = 64
	if err := cfg.Validate(); err != nil {
		t.Errorf("64 workers should validate: %v", err)
	}
}

func TestConfig_LoadYAML(t *testing.T) {
	body := `
source:
  posts_json: ./data/posts.json
  documents_dir: ./docs
output:
  dir: ./out
  ledger_db: ./out/run.db
  report_json: ./out/report.json
pipeline:
  excerpt_max_len: 150
  min_body_len: 20
  subtitle_max_len: 80
  workers: 4
  clean_output: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Source.PostsJSON != "./data/posts.json" || cfg.Source.DocumentsDir != "./docs" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Pipeline.ExcerptMaxLen != 150 || cfg.Pipeline.Workers != 4 || cfg.Pipeline.CleanOutput {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
}

func TestConfig_LoadExpandsEnv(t *testing.T) {
	t.Setenv("LAGUZ_TEST_OUT", "/tmp/laguz-out")
	body := `
source:
  posts_json: ./posts.json
output:
  dir: ${LAGUZ_TEST_OUT}
  ledger_db: ${LAGUZ_TEST_OUT}/run.db
  report_json: ${LAGUZ_TEST_OUT}/report.json
pipeline:
  excerpt_max_len: 200
  min_body_len: 10
  subtitle_max_len: 100
  workers: 1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Dir != "/tmp/laguz-out" {
		t.Errorf("dir = %q, env not expanded", cfg.Output.Dir)
	}
}

func TestConfig_LoadOrDefault_MissingFile(t *testing.T) {
	cfg := NewDefaultConfig()
	err := config.LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"), cfg)
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Pipeline.ExcerptMaxLen != 200 {
		t.Errorf("defaults mutated: %+v", cfg.Pipeline)
	}
}
