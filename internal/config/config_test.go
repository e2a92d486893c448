package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level: got %s, want info", cfg.Log.Level)
	}
	if cfg.Output.FilenamePrefix != "split" {
		t.Errorf("FilenamePrefix: got %s, want split", cfg.Output.FilenamePrefix)
	}
	if cfg.Partition.DefaultMode != "horizontal" {
		t.Errorf("DefaultMode: got %s, want horizontal", cfg.Partition.DefaultMode)
	}
	if cfg.Preview.ThumbnailSize != 80 {
		t.Errorf("ThumbnailSize: got %d, want 80", cfg.Preview.ThumbnailSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("Output.Dir: got %s, want %s", cfg.Output.Dir, DefaultOutputDir)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image-split.yaml")
	data := []byte(`
log:
  level: debug
output:
  dir: /tmp/slices
partition:
  defaultMode: grid
cache:
  ttl: 5m
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %s, want debug", cfg.Log.Level)
	}
	if cfg.Output.Dir != "/tmp/slices" {
		t.Errorf("Output.Dir: got %s, want /tmp/slices", cfg.Output.Dir)
	}
	if cfg.Partition.DefaultMode != "grid" {
		t.Errorf("DefaultMode: got %s, want grid", cfg.Partition.DefaultMode)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL: got %v, want 5m", cfg.Cache.TTL)
	}
	// Untouched keys keep their defaults
	if cfg.Output.FilenamePrefix != "split" {
		t.Errorf("FilenamePrefix: got %s, want split", cfg.Output.FilenamePrefix)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "log: [unclosed"},
		{"bad level", "log:\n  level: chatty\n"},
		{"empty prefix", "output:\n  filenamePrefix: \"\"\n"},
		{"bad mode", "partition:\n  defaultMode: diagonal\n"},
		{"negative ceiling", "partition:\n  maxSurfacePixels: -1\n"},
		{"zero thumbnail", "preview:\n  thumbnailSize: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig should fail")
			}
		})
	}
}

// emptyConfigFile writes an empty config file so Load uses the defaults.
func emptyConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image-split.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, emptyConfigFile(t))
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvOutputDir, "/var/tmp/out")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level: got %s, want warn", cfg.Log.Level)
	}
	if cfg.Output.Dir != "/var/tmp/out" {
		t.Errorf("Output.Dir: got %s, want /var/tmp/out", cfg.Output.Dir)
	}
}

func TestLoad_EnvInvalidLevel(t *testing.T) {
	t.Setenv(EnvConfigPath, emptyConfigFile(t))
	t.Setenv(EnvLogLevel, "loud")

	if _, err := Load(""); err == nil {
		t.Error("Load should reject an invalid level from the environment")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "image-split.yaml")

	cfg := DefaultConfig()
	cfg.Output.Dir = "elsewhere"
	cfg.Cache.CleanupInterval = 2 * time.Hour

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Output.Dir != "elsewhere" {
		t.Errorf("Output.Dir: got %s, want elsewhere", loaded.Output.Dir)
	}
	if loaded.Cache.CleanupInterval != 2*time.Hour {
		t.Errorf("CleanupInterval: got %v, want 2h", loaded.Cache.CleanupInterval)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("argument", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		if _, err := Load(missing); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("got %v, want os.ErrNotExist", err)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvConfigPath, missing)
		if _, err := Load(""); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("got %v, want os.ErrNotExist", err)
		}
	})
}

func TestLoad_MissingDefaultFileIsOptional(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Dir != DefaultConfig().Output.Dir {
		t.Errorf("Output.Dir: got %s, want default", cfg.Output.Dir)
	}
}
