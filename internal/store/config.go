package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8080"
	DefaultImage          = "/assets/profile.png"
	DefaultImagesPath     = "/images"
	DefaultRequestTimeout = 10 * time.Second
	DefaultPageSize       = 3
)

// Config is the user-level configuration stored in <configDir>/config.json.
//
// Environment variables (optionally loaded from a .env file) take precedence
// over the file; cobra flags take precedence over both.
type Config struct {
	APIBaseURL string `json:"apiBaseUrl,omitempty"`

	// DefaultImage is shown for users without a profile image.
	DefaultImage string `json:"defaultImage,omitempty"`
	// ImagesPath prefixes uploaded image names served by the backend.
	ImagesPath string `json:"imagesPath,omitempty"`

	RequestTimeoutSeconds int `json:"requestTimeoutSeconds,omitempty"`
	// RateLimitPerSecond throttles outbound API calls. 0 disables throttling.
	RateLimitPerSecond float64 `json:"rateLimitPerSecond,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// PageSize is the number of users per home page.
	PageSize int `json:"pageSize,omitempty"`
}

func (c *Config) RequestTimeout() time.Duration {
	if c == nil || c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) PageSize() int {
	if c == nil || c.TUI == nil || c.TUI.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.TUI.PageSize
}

func (c *Config) Glyphs() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return c.TUI.Glyphs
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.userhub).
	if v := strings.TrimSpace(os.Getenv("USERHUB_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".userhub"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json (missing file => defaults), loads ./.env if
// present, then applies USERHUB_* environment overrides.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("USERHUB_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("USERHUB_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("USERHUB_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeoutSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("USERHUB_RATE_LIMIT")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitPerSecond = f
		}
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if strings.TrimSpace(cfg.DefaultImage) == "" {
		cfg.DefaultImage = DefaultImage
	}
	if strings.TrimSpace(cfg.ImagesPath) == "" {
		cfg.ImagesPath = DefaultImagesPath
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename so a CLI and a running TUI never leave a torn file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
