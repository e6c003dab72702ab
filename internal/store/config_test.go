package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("USERHUB_CONFIG_DIR", t.TempDir())
	t.Setenv("USERHUB_API_URL", "")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("APIBaseURL=%q", cfg.APIBaseURL)
	}
	if cfg.DefaultImage != DefaultImage || cfg.ImagesPath != DefaultImagesPath {
		t.Fatalf("unexpected image defaults: %+v", cfg)
	}
	if cfg.RequestTimeout() != DefaultRequestTimeout {
		t.Fatalf("RequestTimeout=%s", cfg.RequestTimeout())
	}
	if cfg.PageSize() != DefaultPageSize {
		t.Fatalf("PageSize=%d", cfg.PageSize())
	}
}

func TestSaveConfig_RoundTripAndEnvOverride(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("USERHUB_CONFIG_DIR", cfgDir)
	t.Chdir(t.TempDir())

	in := &Config{
		APIBaseURL:            "http://api.example/",
		RequestTimeoutSeconds: 3,
		TUI:                   &TUIConfig{Glyphs: "ascii", PageSize: 5},
	}
	if err := SaveConfig(in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.APIBaseURL != "http://api.example" {
		t.Fatalf("expected trailing slash trimmed; got %q", got.APIBaseURL)
	}
	if got.RequestTimeout() != 3*time.Second || got.PageSize() != 5 || got.Glyphs() != "ascii" {
		t.Fatalf("unexpected config: %+v tui=%+v", got, got.TUI)
	}

	t.Setenv("USERHUB_API_URL", "http://override:9000")
	t.Setenv("USERHUB_RATE_LIMIT", "2.5")
	got, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.APIBaseURL != "http://override:9000" || got.RateLimitPerSecond != 2.5 {
		t.Fatalf("env override not applied: %+v", got)
	}

	ents, err := os.ReadDir(cfgDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	t.Setenv("USERHUB_CONFIG_DIR", t.TempDir())
	t.Setenv("USERHUB_LOG_LEVEL", "")
	os.Unsetenv("USERHUB_LOG_LEVEL")
	wd := t.TempDir()
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte("USERHUB_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(wd)
	t.Cleanup(func() { os.Unsetenv("USERHUB_LOG_LEVEL") })

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected .env log level; got %q", cfg.LogLevel)
	}
}
