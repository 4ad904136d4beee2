// Package config loads the apptcapture settings file.
//
// Settings live in <home>/config.yaml where home is $APPTCAPTURE_HOME or
// ~/.apptcapture. A missing file yields the defaults; unknown keys are
// ignored so older binaries can read newer files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// HomeEnv overrides the settings directory.
const HomeEnv = "APPTCAPTURE_HOME"

const (
	fileName = "config.yaml"

	defaultDriver      = "json"
	defaultHostPattern = "https://app.gohighlevel.com/*"
	defaultCDPEndpoint = "http://localhost:9222"
	defaultTimeout     = 10 * time.Second
	defaultPromptDelay = 500 * time.Millisecond
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// StorageConfig selects the durable store.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	// Path defaults to <home>/state.json or <home>/state.db by driver.
	Path string `yaml:"path,omitempty"`
}

// BrowserConfig controls how the running browser is reached.
type BrowserConfig struct {
	CDPEndpoint string        `yaml:"cdp_endpoint"`
	HostPattern string        `yaml:"host_pattern"`
	Timeout     time.Duration `yaml:"timeout"`
}

// UIConfig holds panel behavior.
type UIConfig struct {
	PromptDelay time.Duration `yaml:"prompt_delay"`
}

// ValidationConfig toggles save-time checks.
type ValidationConfig struct {
	RequireFields bool `yaml:"require_fields"`
}

// Config is the whole settings file.
type Config struct {
	Version      string           `yaml:"version"`
	Storage      StorageConfig    `yaml:"storage"`
	DownloadsDir string           `yaml:"downloads_dir,omitempty"`
	Browser      BrowserConfig    `yaml:"browser"`
	UI           UIConfig         `yaml:"ui"`
	Validation   ValidationConfig `yaml:"validation"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Version: "1",
		Storage: StorageConfig{Driver: defaultDriver},
		Browser: BrowserConfig{
			CDPEndpoint: defaultCDPEndpoint,
			HostPattern: defaultHostPattern,
			Timeout:     defaultTimeout,
		},
		UI: UIConfig{PromptDelay: defaultPromptDelay},
	}
}

// Home returns the settings directory, respecting APPTCAPTURE_HOME.
func Home() string {
	if h := os.Getenv(HomeEnv); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".apptcapture")
	}
	return filepath.Join(home, ".apptcapture")
}

// DefaultPath returns <home>/config.yaml.
func DefaultPath() string {
	return filepath.Join(Home(), fileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg to path via a temp file and rename.
func (c Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("%w: storage.driver must be json or sqlite, got %q", ErrInvalid, c.Storage.Driver)
	}
	if strings.TrimSpace(c.Browser.HostPattern) == "" {
		return fmt.Errorf("%w: browser.host_pattern is empty", ErrInvalid)
	}
	if _, err := glob.Compile(c.Browser.HostPattern); err != nil {
		return fmt.Errorf("%w: browser.host_pattern: %v", ErrInvalid, err)
	}
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("%w: browser.timeout must be positive", ErrInvalid)
	}
	if c.UI.PromptDelay < 0 {
		return fmt.Errorf("%w: ui.prompt_delay must not be negative", ErrInvalid)
	}
	return nil
}

// StoragePath resolves the store location under home when unset.
func (c Config) StoragePath(home string) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Driver == "sqlite" {
		return filepath.Join(home, "state.db")
	}
	return filepath.Join(home, "state.json")
}

// LogDir is where run logs go.
func LogDir(home string) string {
	return filepath.Join(home, "logs")
}
