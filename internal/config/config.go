// Package config loads anchormark configuration from a YAML file with
// environment variable expansion.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eykd/anchormark-go/internal/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Exit modes.
const (
	ExitModeCompat = "compat"
	ExitModeStrict = "strict"
)

// Ledger recovery policies.
const (
	RecoveryReinitialize = "reinitialize"
	RecoveryFail         = "fail"
)

// DefaultFile is consulted in the working directory when neither the
// --config flag nor EnvConfigPath names a config file.
const DefaultFile = ".amk.yaml"

// EnvConfigPath is the environment variable naming a config file.
const EnvConfigPath = "AMK_CONFIG"

// Config represents the tool configuration. The zero-value-plus-
// defaults form reproduces the original hardcoded behavior exactly.
type Config struct {
	Ledger   LedgerConfig                   `yaml:"ledger"`
	Exit     ExitConfig                     `yaml:"exit"`
	Comments map[string]domain.CommentStyle `yaml:"comments"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Ledger.Validate(); err != nil {
		return err
	}
	if err := c.Exit.Validate(); err != nil {
		return err
	}
	return c.validateComments()
}

// validateComments checks the extension override table.
func (c *Config) validateComments() error {
	for ext, style := range c.Comments {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("comments: extension %q must start with a dot", ext)
		}
		if style.Prefix == "" {
			return fmt.Errorf("comments: extension %q has an empty prefix", ext)
		}
	}
	return nil
}

// LedgerConfig locates the anchors ledger and names its corruption
// recovery policy.
type LedgerConfig struct {
	Dir      string `yaml:"dir"`
	File     string `yaml:"file"`
	Recovery string `yaml:"recovery"`
}

// Validate validates the ledger configuration.
func (c *LedgerConfig) Validate() error {
	// Normalise empty recovery to the original tool's behavior.
	if c.Recovery == "" {
		c.Recovery = RecoveryReinitialize
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.File, validation.Required),
		validation.Field(&c.Recovery, validation.Required, validation.In(RecoveryReinitialize, RecoveryFail)),
	)
}

// ExitConfig controls the exit-status contract for anticipated invalid
// input (missing file, out-of-range line, empty label key).
type ExitConfig struct {
	Mode string `yaml:"mode"`
}

// Validate validates the exit configuration.
func (c *ExitConfig) Validate() error {
	// Normalise empty mode to the original tool's exit behavior.
	if c.Mode == "" {
		c.Mode = ExitModeCompat
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(ExitModeCompat, ExitModeStrict)),
	)
}

// Strict reports whether anticipated invalid input exits non-zero.
func (c *ExitConfig) Strict() bool {
	return c.Mode == ExitModeStrict
}

// NewDefaultConfig returns a Config reproducing the original tool's
// hardcoded ledger location and exit behavior.
func NewDefaultConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Dir:      filepath.Join(".claude", "memory_anchors"),
			File:     "anchors.json",
			Recovery: RecoveryReinitialize,
		},
		Exit: ExitConfig{
			Mode: ExitModeCompat,
		},
	}
}

// Load reads and validates the config at path. ${VAR} references are
// expanded from the environment before parsing. Fields absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := NewDefaultConfig()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Resolve returns the effective configuration: the explicit flag path
// when given, else $AMK_CONFIG, else .amk.yaml when present, else
// built-in defaults. The second return names the file actually used,
// empty when running on defaults.
func Resolve(flagPath string) (*Config, string, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path == "" {
		slog.Debug("config resolved", slog.String("source", "defaults"))
		return NewDefaultConfig(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	slog.Debug("config resolved", slog.String("source", path))
	return cfg, path, nil
}
