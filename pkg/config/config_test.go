package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Import.RawDataDir != "." {
		t.Errorf("unexpected raw data dir: %s", cfg.Import.RawDataDir)
	}
	if cfg.Import.MaxRows != -1 {
		t.Errorf("expected unlimited rows by default, got %d", cfg.Import.MaxRows)
	}
	if cfg.Watch.MaxJobs != 4 {
		t.Errorf("unexpected max jobs: %d", cfg.Watch.MaxJobs)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should be off by default")
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
version: 1
import:
  raw_data_dir: /data/incoming
  max_rows: 1000
s3:
  region: eu-west-1
  use_path_style: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Import.RawDataDir != "/data/incoming" {
		t.Errorf("raw data dir not loaded: %s", cfg.Import.RawDataDir)
	}
	if cfg.Import.MaxRows != 1000 {
		t.Errorf("max rows not loaded: %d", cfg.Import.MaxRows)
	}
	if cfg.S3.Region != "eu-west-1" || !cfg.S3.UsePathStyle {
		t.Errorf("s3 config not loaded: %+v", cfg.S3)
	}

	// Unset fields keep their defaults.
	if cfg.Watch.MaxJobs != 4 {
		t.Errorf("default lost in merge: %d", cfg.Watch.MaxJobs)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("import: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("import:\n  encoding: utf-8\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GRIDFLOW_ENCODING", "windows-1252")
	t.Setenv("GRIDFLOW_MAX_ROWS", "50")
	t.Setenv("GRIDFLOW_OTLP_ENDPOINT", "localhost:4317")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Import.Encoding != "windows-1252" {
		t.Errorf("env did not override file: %s", cfg.Import.Encoding)
	}
	if cfg.Import.MaxRows != 50 {
		t.Errorf("env max rows not applied: %d", cfg.Import.MaxRows)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("otlp endpoint not applied: %+v", cfg.Telemetry)
	}
}
