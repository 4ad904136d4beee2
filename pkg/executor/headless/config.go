package headless

import (
	"fmt"
	"os"
	"slices"

	"github.com/entrhq/apptcapture/pkg/form"
	"github.com/entrhq/apptcapture/pkg/types"
	"gopkg.in/yaml.v3"
)

// Config represents one scripted capture
type Config struct {
	// Values typed over whatever was extracted from the page
	Values Values `yaml:"values" json:"values"`

	// Directory, when set, is chosen before saving as if the operator picked it
	Directory string `yaml:"directory" json:"directory"`

	// Confirm answers the "choose a directory now?" question
	Confirm ConfirmPolicy `yaml:"confirm" json:"confirm"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
}

// Values are the panel fields. Empty strings keep the extracted value.
type Values struct {
	Type     string   `yaml:"type" json:"type"`
	Name     string   `yaml:"name" json:"name"`
	Phone    string   `yaml:"phone" json:"phone"`
	Email    string   `yaml:"email" json:"email"`
	Source   string   `yaml:"source" json:"source"`
	Location string   `yaml:"location" json:"location"`
	Interest string   `yaml:"interest" json:"interest"`
	Has      []string `yaml:"has" json:"has"`
	Weekday  string   `yaml:"weekday" json:"weekday"`
	Date     string   `yaml:"date" json:"date"`
	Time     string   `yaml:"time" json:"time"`
}

// ConfirmPolicy decides how yes/no questions are answered
type ConfirmPolicy string

const (
	// ConfirmNo declines, so saves without a directory download
	ConfirmNo ConfirmPolicy = "no"
	// ConfirmYes accepts
	ConfirmYes ConfirmPolicy = "yes"
	// ConfirmAsk defers to the configured prompter
	ConfirmAsk ConfirmPolicy = "ask"
)

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Individual format flags
	JSON     bool `yaml:"json" json:"json"`
	Markdown bool `yaml:"markdown" json:"markdown"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Confirm {
	case "":
		c.Confirm = ConfirmNo
	case ConfirmNo, ConfirmYes, ConfirmAsk:
	default:
		return fmt.Errorf("invalid confirm policy: %s (must be 'yes', 'no', or 'ask')", c.Confirm)
	}

	if c.Values.Type != "" {
		if _, ok := types.ParseAppointmentType(c.Values.Type); !ok {
			return fmt.Errorf("invalid appointment type: %s", c.Values.Type)
		}
	}

	if c.Values.Weekday != "" && !slices.Contains(form.Weekdays(), c.Values.Weekday) {
		return fmt.Errorf("invalid weekday: %s", c.Values.Weekday)
	}

	for _, h := range c.Values.Has {
		if !slices.Contains(form.Checklist(), h) {
			return fmt.Errorf("invalid checklist item: %s", h)
		}
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts.output_dir is required when artifacts are enabled")
	}

	return nil
}

// DefaultConfig returns a configuration that saves whatever was extracted
func DefaultConfig() *Config {
	return &Config{
		Confirm: ConfirmNo,
		Artifacts: ArtifactConfig{
			Enabled:   false,
			OutputDir: ".apptcapture/artifacts",
			JSON:      true,
			Markdown:  true,
		},
	}
}

// LoadConfig reads a YAML capture file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read headless config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse headless config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid headless config: %w", err)
	}
	return cfg, nil
}
