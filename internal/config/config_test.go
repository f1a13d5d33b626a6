package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigMergeAndOverrides(t *testing.T) {
	tempDir := t.TempDir()
	defaultPath := filepath.Join(tempDir, "default.yaml")
	globalPath := filepath.Join(tempDir, "global.yaml")
	projectDir := filepath.Join(tempDir, "project")

	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir project: %v", err)
	}

	writeFile(t, defaultPath, "defaults:\n  samples: 30\n  proposal: identity\nlogging:\n  level: info\n")
	writeFile(t, globalPath, "defaults:\n  samples: 40\nlogging:\n  level: warn\n")
	writeFile(t, filepath.Join(projectDir, ".nestprop.yaml"), "defaults:\n  samples: 50\nmodel:\n  bounds:\n    x: \"0,1\"\n")

	t.Setenv("NESTPROP_DEFAULT_CONFIG", defaultPath)
	t.Setenv("NESTPROP_GLOBAL_CONFIG", globalPath)
	t.Setenv("NESTPROP_PROJECT_CONFIG_NAME", ".nestprop.yaml")

	if _, err := LoadConfig(projectDir); err != nil {
		t.Fatalf("load config: %v", err)
	}

	if value := Int("defaults.samples", 0); value != 50 {
		t.Fatalf("expected samples 50, got %d", value)
	}
	if value := String("defaults.proposal", ""); value != "identity" {
		t.Fatalf("expected proposal identity, got %q", value)
	}
	if value, ok := GetConfig("logging.level"); !ok || value != "warn" {
		t.Fatalf("expected logging.level warn, got %q", value)
	}
	if value := String("defaults.output_dir", ""); value != "nestprop_output" {
		t.Fatalf("expected default output_dir, got %q", value)
	}

	bounds := StringMap("model.bounds")
	if bounds["x"] != "0,1" {
		t.Fatalf("expected x bounds 0,1, got %v", bounds)
	}

	t.Setenv("NESTPROP_DEFAULTS_SAMPLES", "77")
	if value := Int("defaults.samples", 0); value != 77 {
		t.Fatalf("expected env override 77, got %d", value)
	}
}

func TestIntFallback(t *testing.T) {
	t.Setenv("NESTPROP_DEFAULT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("NESTPROP_GLOBAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("NESTPROP_DEFAULTS_SAMPLES", "-3")

	if _, err := LoadConfig(""); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if value := Int("defaults.samples", 9); value != 9 {
		t.Fatalf("expected fallback 9, got %d", value)
	}
}

func TestSetConfigWritesGlobal(t *testing.T) {
	tempDir := t.TempDir()
	globalPath := filepath.Join(tempDir, "config.yaml")

	t.Setenv("NESTPROP_CONFIG_DIR", tempDir)
	t.Setenv("NESTPROP_GLOBAL_CONFIG", globalPath)

	if err := SetConfig("defaults.proposal", "uniform"); err != nil {
		t.Fatalf("set config: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(globalPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read global config: %v", err)
	}

	if value := v.GetString("defaults.proposal"); value != "uniform" {
		t.Fatalf("expected defaults.proposal uniform, got %q", value)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
