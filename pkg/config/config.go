// Package config provides configuration loading and management for pixelfx.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"pixelfx/pkg/filter"
	"pixelfx/pkg/imagefile"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many files are filtered concurrently
		NumCores int `yaml:"numCores"`

		// Filter is the name of the filter applied by default
		Filter string `yaml:"filter"`

		// MosaicArea is the mosaic block size in pixels
		MosaicArea int `yaml:"mosaicArea"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Dir is where filtered images are written
		Dir string `yaml:"dir"`

		// Format is the encoder used for output files (png, jpeg, gif, bmp, tiff)
		Format string `yaml:"format"`

		// WorkSuffix is appended to the input file name to form the work file name
		WorkSuffix string `yaml:"workSuffix"`

		// SaveIntermediaryResults determines whether to save intermediary processing results
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where intermediary results are written
		IntermediaryDir string `yaml:"intermediaryDir"`

		// Metrics enables quality metrics between input and output
		Metrics bool `yaml:"metrics"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.Filter = "grayscale"
	cfg.Processing.MosaicArea = filter.DefaultArea

	cfg.Output.Dir = "output"
	cfg.Output.Format = "png"
	cfg.Output.WorkSuffix = "_work"
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.Metrics = true
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configuration can drive the pipeline
func (c *Config) Validate() error {
	if _, ok := filter.Lookup(c.Processing.Filter); !ok {
		return fmt.Errorf("unknown filter %q (available: %v)", c.Processing.Filter, filter.Names())
	}
	if c.Processing.MosaicArea <= 0 {
		return fmt.Errorf("mosaicArea must be positive, got %d", c.Processing.MosaicArea)
	}
	if c.Processing.NumCores <= 0 {
		return fmt.Errorf("numCores must be positive, got %d", c.Processing.NumCores)
	}
	if _, err := imagefile.FormatFor("x" + imagefile.Extension(c.Output.Format)); err != nil {
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
