// Package config loads, validates and persists the contactdeck configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/contactdeck/internal/source"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1.0.0"

// supportedVersions is the semver constraint config files must satisfy.
const supportedVersions = "^1"

// Environment variables that override config file values.
const (
	EnvHome        = "CONTACTDECK_HOME"
	EnvLogLevel    = "CONTACTDECK_LOG_LEVEL"
	EnvFailureRate = "CONTACTDECK_FAILURE_RATE"
	EnvLatency     = "CONTACTDECK_LATENCY"
)

// Validation errors.
var (
	ErrInvalidPageSize     = errors.New("source.page_size must be >= 1")
	ErrInvalidFailureRate  = errors.New("source.failure_rate must be between 0 and 1")
	ErrNegativeDuration    = errors.New("durations cannot be negative")
	ErrUnsupportedVersion  = errors.New("unsupported config version")
	ErrConfigAlreadyExists = errors.New("config file already exists")
)

// Config is the root configuration document.
type Config struct {
	Version string        `yaml:"version"`
	Source  SourceConfig  `yaml:"source"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig configures the simulated contact API.
type SourceConfig struct {
	// Dataset is a JSON or YAML file; empty uses the builtin contacts.
	Dataset      string        `yaml:"dataset,omitempty"`
	PageSize     int           `yaml:"page_size"`
	Latency      time.Duration `yaml:"latency"`
	FailureRate  float64       `yaml:"failure_rate"`
	CursorPolicy string        `yaml:"cursor_policy"`
	// Seed makes failures reproducible; 0 picks a random seed.
	Seed uint64 `yaml:"seed,omitempty"`
}

// UIConfig configures the interactive browser.
type UIConfig struct {
	ErrorDisplay time.Duration `yaml:"error_display"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns a Config populated with defaults for the configuration
// directory of the process environment.
func New() *Config {
	dir, _ := GetConfigDir(os.LookupEnv)
	return NewInDir(dir)
}

// NewInDir returns a Config populated with defaults whose log file lives
// under dir. An empty dir leaves the log file unset.
func NewInDir(dir string) *Config {
	logFile := ""
	if dir != "" {
		logFile = filepath.Join(dir, "logs", "contactdeck.log")
	}

	return &Config{
		Version: CurrentVersion,
		Source: SourceConfig{
			PageSize:     source.DefaultPageSize,
			Latency:      source.DefaultLatency,
			FailureRate:  source.DefaultFailureRate,
			CursorPolicy: string(source.CursorAdvance),
		},
		UI: UIConfig{
			ErrorDisplay: 3000 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   logFile,
		},
	}
}

// Load reads the config at path on top of the defaults. A missing file is
// not an error; the defaults are returned. The default log file sits beside
// the config file.
func Load(path string) (*Config, error) {
	cfg := NewInDir(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes the default config to path unless a file already exists there
// and force is false.
func Init(path string, force bool) (*Config, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return nil, fmt.Errorf("%w: %s", ErrConfigAlreadyExists, path)
	}
	cfg := NewInDir(filepath.Dir(path))
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from environment variables. Unparseable values
// are reported and leave the config unchanged.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvFailureRate); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvFailureRate, err))
		} else {
			c.Source.FailureRate = rate
		}
	}
	if v, ok := lookupEnv(EnvLatency); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLatency, err))
		} else {
			c.Source.Latency = d
		}
	}

	return errors.Join(errs...)
}

// Validate checks the config for values the program cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if err := checkVersion(c.Version); err != nil {
		errs = append(errs, err)
	}
	if c.Source.PageSize < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.Source.PageSize))
	}
	if c.Source.FailureRate < 0 || c.Source.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidFailureRate, c.Source.FailureRate))
	}
	if c.Source.Latency < 0 || c.UI.ErrorDisplay < 0 {
		errs = append(errs, ErrNegativeDuration)
	}
	if _, err := source.ParseCursorPolicy(c.Source.CursorPolicy); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// CursorPolicy returns the parsed cursor policy. Call Validate first.
func (c *Config) CursorPolicy() source.CursorPolicy {
	p, err := source.ParseCursorPolicy(c.Source.CursorPolicy)
	if err != nil {
		return source.CursorAdvance
	}
	return p
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, supportedVersions)
	}
	return nil
}
