// Package config provides configuration loading and management for phantomqa.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"phantomqa/internal/logger"
	"phantomqa/pkg/calibration"
	"phantomqa/pkg/ellipse"
	"phantomqa/pkg/errkind"
	"phantomqa/pkg/ring"
)

// Config represents the analysis configuration loaded from YAML
type Config struct {
	// Calibration data source
	Calibration struct {
		// Workbook is the path to the vendor calibration workbook
		Workbook string `yaml:"workbook"`

		// Sheets lists the workbook sheets to read; empty means the vendor layout
		Sheets []calibration.SheetLayout `yaml:"sheets,omitempty"`
	} `yaml:"calibration"`

	// Ellipse fitting parameters
	Fitting struct {
		// Method is "svd" or "eig"
		Method string `yaml:"method"`

		// Samples is the number of boundary points drawn from a fitted ellipse
		Samples int `yaml:"samples"`
	} `yaml:"fitting"`

	// Ring generation parameters
	Ring struct {
		// NPoints is the number of boundary points per ring
		NPoints int `yaml:"npoints"`
	} `yaml:"ring"`

	Logging struct {
		// Level is debug, info or error
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Calibration.Workbook = "calibration.xlsx"

	cfg.Fitting.Method = ellipse.MethodSVD.String()
	cfg.Fitting.Samples = ellipse.DefaultSamples

	cfg.Ring.NPoints = ring.DefaultPoints

	cfg.Logging.Level = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
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

	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, configPath)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
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

// Validate checks every value against what the analysis packages accept.
func (c *Config) Validate() error {
	if _, err := c.FitMethod(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.Wrap(errkind.ErrInvalidArgument, err.Error())
	}
	if c.Fitting.Samples < 1 {
		return errors.Wrapf(errkind.ErrInvalidArgument, "fitting.samples must be at least 1, got %d", c.Fitting.Samples)
	}
	if c.Ring.NPoints < 1 {
		return errors.Wrapf(errkind.ErrInvalidArgument, "ring.npoints must be at least 1, got %d", c.Ring.NPoints)
	}

	names := map[string]bool{}
	for i, s := range c.Calibration.Sheets {
		if s.Sheet == "" || s.Name == "" {
			return errors.Wrapf(errkind.ErrInvalidArgument, "calibration.sheets[%d] needs both sheet and name", i)
		}
		if s.Head < 0 || s.Tail < 0 {
			return errors.Wrapf(errkind.ErrInvalidArgument, "calibration.sheets[%d] has a negative head or tail", i)
		}
		if names[s.Name] {
			return errors.Wrapf(errkind.ErrInvalidArgument, "calibration.sheets[%d] repeats name %s", i, s.Name)
		}
		names[s.Name] = true
	}
	return nil
}

// FitMethod returns the configured ellipse fitting method.
func (c *Config) FitMethod() (ellipse.Method, error) {
	return ellipse.ParseMethod(c.Fitting.Method)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() (logger.LogLevel, error) {
	return logger.ParseLevel(c.Logging.Level)
}

// Layouts returns the workbook sheets to read.
func (c *Config) Layouts() []calibration.SheetLayout {
	if len(c.Calibration.Sheets) == 0 {
		return calibration.DefaultLayouts()
	}
	return append([]calibration.SheetLayout(nil), c.Calibration.Sheets...)
}

// Logger returns a stderr logger at the configured level.
func (c *Config) Logger() (*logger.Logger, error) {
	lvl, err := c.LogLevel()
	if err != nil {
		return nil, errors.Wrap(errkind.ErrInvalidArgument, err.Error())
	}
	return logger.New(lvl), nil
}

// Fitter returns an ellipse fitter using the configured method.
func (c *Config) Fitter(log logger.ILogger) (ellipse.Fitter, error) {
	m, err := c.FitMethod()
	if err != nil {
		return ellipse.Fitter{}, err
	}
	return ellipse.Fitter{Method: m, Log: log}, nil
}

// OpenCalibration loads the configured workbook. A relative workbook path is
// resolved against baseDir.
func (c *Config) OpenCalibration(baseDir string, log logger.ILogger) (*calibration.Calibration, error) {
	path := c.Calibration.Workbook
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return calibration.Open(path, calibration.WithLayouts(c.Layouts()), calibration.WithLogger(log))
}
