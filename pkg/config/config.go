// Package config provides hierarchical configuration management.
// Priority: defaults < file < env < flags
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all GridFlow configuration.
type Config struct {
	Version int `yaml:"version"`

	Import    ImportConfig    `yaml:"import"`
	S3        S3Config        `yaml:"s3"`
	Watch     WatchConfig     `yaml:"watch"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ImportConfig controls default import behavior.
type ImportConfig struct {
	// RawDataDir is the directory job file records resolve against.
	RawDataDir string `yaml:"raw_data_dir"`

	// MaxRows is the default global row limit; negative = unlimited.
	MaxRows int64 `yaml:"max_rows"`

	// Encoding is the batch-wide charset for decoded-text formats.
	Encoding string `yaml:"encoding"`
}

// S3Config for remote-URI imports.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// WatchConfig for the drop-directory service.
type WatchConfig struct {
	Dir string `yaml:"dir"`

	// MaxJobs bounds concurrently running import jobs.
	MaxJobs int `yaml:"max_jobs"`
}

// TelemetryConfig for optional trace export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Import: ImportConfig{
			RawDataDir: ".",
			MaxRows:    -1,
		},
		Watch: WatchConfig{
			MaxJobs: 4,
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}

// Load builds the configuration from defaults, an optional file and
// the environment. path may be empty, in which case the default config
// file locations are tried.
func Load(path string) (*Config, error) {
	cfg := Default()

	paths := []string{path}
	if path == "" {
		paths = defaultPaths()
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := loadFile(cfg, p); err != nil {
			if os.IsNotExist(err) && path == "" {
				continue
			}
			return nil, err
		}
	}

	loadEnv(cfg)
	return cfg, nil
}

func defaultPaths() []string {
	homeDir, _ := os.UserHomeDir()
	return []string{
		filepath.Join(homeDir, ".gridflow", "config.yaml"),
		".gridflow.yaml",
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var src Config
	if err := yaml.Unmarshal(data, &src); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	merge(cfg, &src)
	return nil
}

// merge overlays non-zero fields of src onto dst.
func merge(dst, src *Config) {
	if src.Import.RawDataDir != "" {
		dst.Import.RawDataDir = src.Import.RawDataDir
	}
	if src.Import.MaxRows != 0 {
		dst.Import.MaxRows = src.Import.MaxRows
	}
	if src.Import.Encoding != "" {
		dst.Import.Encoding = src.Import.Encoding
	}

	if src.S3.Region != "" {
		dst.S3.Region = src.S3.Region
	}
	if src.S3.Endpoint != "" {
		dst.S3.Endpoint = src.S3.Endpoint
	}
	if src.S3.UsePathStyle {
		dst.S3.UsePathStyle = true
	}

	if src.Watch.Dir != "" {
		dst.Watch.Dir = src.Watch.Dir
	}
	if src.Watch.MaxJobs != 0 {
		dst.Watch.MaxJobs = src.Watch.MaxJobs
	}

	if src.Telemetry.Enabled {
		dst.Telemetry.Enabled = true
	}
	if src.Telemetry.Endpoint != "" {
		dst.Telemetry.Endpoint = src.Telemetry.Endpoint
	}
}

// loadEnv loads configuration from environment variables.
func loadEnv(cfg *Config) {
	if v := os.Getenv("GRIDFLOW_RAW_DATA_DIR"); v != "" {
		cfg.Import.RawDataDir = v
	}
	if v := os.Getenv("GRIDFLOW_ENCODING"); v != "" {
		cfg.Import.Encoding = v
	}
	if v := os.Getenv("GRIDFLOW_S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := os.Getenv("GRIDFLOW_S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("GRIDFLOW_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("GRIDFLOW_MAX_ROWS"); v != "" {
		var rows int64
		if _, err := fmt.Sscanf(v, "%d", &rows); err == nil {
			cfg.Import.MaxRows = rows
		}
	}
}
