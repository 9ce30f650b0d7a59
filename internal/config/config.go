package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/municipales2026/importer/pkg/importer"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ProjectConfig holds the optional overrides read from municipales.yaml.
// Zero values mean "not set"; flags take precedence over every field.
type ProjectConfig struct {
	DataDir        string `yaml:"data_dir"`
	Pattern        string `yaml:"pattern"`
	BatchSize      int    `yaml:"batch_size"`
	ConnectRetries *int   `yaml:"connect_retries"`
	MetricsFile    string `yaml:"metrics_file"`
	Timeout        string `yaml:"timeout"`
}

const ConfigFileName = "municipales.yaml"

// LoadFile reads and validates the config file at path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", importer.ErrInvalidConfig, path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *ProjectConfig) validate() error {
	var errs []error
	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("%w: batch_size cannot be negative", importer.ErrInvalidConfig))
	}
	if c.ConnectRetries != nil && *c.ConnectRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: connect_retries cannot be negative", importer.ErrInvalidConfig))
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TimeoutDuration parses Timeout. An empty value is zero (no timeout).
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %w", importer.ErrInvalidConfig, c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: timeout cannot be negative", importer.ErrInvalidConfig)
	}
	return d, nil
}

// ApplyTo copies every set field onto cfg. Flags are applied afterwards by the caller.
func (c *ProjectConfig) ApplyTo(cfg *importer.ImportConfig) error {
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.Pattern != "" {
		cfg.SourcePattern = c.Pattern
	}
	if c.BatchSize > 0 {
		cfg.CandidateBatchSize = c.BatchSize
	}
	if c.ConnectRetries != nil {
		cfg.ConnectRetries = *c.ConnectRetries
	}
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return nil
}
