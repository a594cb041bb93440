package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capgen.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.OutDir != "" {
		t.Errorf("OutDir = %q, want empty", cfg.OutDir)
	}
	if cfg.Workers != min(runtime.NumCPU(), MaxWorkers) {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.AbbreviateNames || cfg.IncludeInactive {
		t.Error("optional features should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
out_dir: build/cap
workers: 3
abbreviate_names: true
log:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutDir != "build/cap" || cfg.Workers != 3 || !cfg.AbbreviateNames {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.IncludeInactive {
		t.Error("include_inactive should keep its default")
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load(empty) failed: %v", err)
	}
	if cfg.OutDir != "" || cfg.Workers < 1 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "output: x\n", "failed to parse"},
		{"bad yaml", "workers: [1,\n", "failed to parse"},
		{"wrong type", "workers: many\n", "failed to parse"},
		{"too many workers", "workers: 1000\n", "workers must be between"},
		{"bad level", "log:\n  level: loud\n", "unknown log level"},
		{"bad format", "log:\n  format: xml\n", "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestResolvePrecedence(t *testing.T) {
	path := writeConfig(t, "out_dir: from-file\nworkers: 2\n")

	cfg, err := Resolve(path, Overrides{Workers: 5, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.OutDir != "from-file" {
		t.Errorf("file should beat default: OutDir = %q", cfg.OutDir)
	}
	if cfg.Workers != 5 {
		t.Errorf("flag should beat file: Workers = %d", cfg.Workers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}

	cfg, err = Resolve("", Overrides{IncludeInactive: true})
	if err != nil {
		t.Fatalf("Resolve without file failed: %v", err)
	}
	if !cfg.IncludeInactive || cfg.OutDir != "" {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Resolve("", Overrides{Workers: -1}); err == nil {
		t.Error("negative workers should fail validation")
	}
}
