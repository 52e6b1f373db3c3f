// Package config loads option-calc settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/contactkeval/option-calc/internal/engine"
	"github.com/contactkeval/option-calc/internal/logger"
	"github.com/contactkeval/option-calc/internal/pricing"
)

// validate is shared by every Validate call.
var validate = validator.New()

// Config holds every tunable of the CLI and the REST server.
type Config struct {
	Server struct {
		Port string `yaml:"port" validate:"required"`
	} `yaml:"server"`

	Data struct {
		Provider     string `yaml:"provider" validate:"oneof=synthetic massive polygon csv local"`
		APIKey       string `yaml:"api_key"`
		Dir          string `yaml:"dir"`
		Seed         int64  `yaml:"seed"`
		LookbackDays int    `yaml:"lookback_days" validate:"gte=2,lte=3650"`
	} `yaml:"data"`

	Pricing struct {
		Model string `yaml:"model" validate:"required"`
		Steps int    `yaml:"steps" validate:"gte=1"`
	} `yaml:"pricing"`

	Report struct {
		Dir string `yaml:"dir"`
	} `yaml:"report"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = ":8080"
	cfg.Data.Provider = "synthetic"
	cfg.Data.Dir = "data"
	cfg.Data.Seed = 42
	cfg.Data.LookbackDays = 90
	cfg.Pricing.Model = "european"
	cfg.Pricing.Steps = engine.DefaultSteps
	cfg.Report.Dir = "reports"
	cfg.Logging.Level = "info"
	return &cfg
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func overrideWithEnv(cfg *Config) error {
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Data.APIKey = v
		if cfg.Data.Provider == "synthetic" {
			cfg.Data.Provider = "massive"
		}
	}
	if v := os.Getenv("OPTION_CALC_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("OPTION_CALC_VERBOSITY"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPTION_CALC_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OPTION_CALC_STEPS: %w", err)
		}
		cfg.Pricing.Steps = n
	}
	return nil
}

// Validate checks field ranges and the values parsed by other packages.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Pricing.Steps > pricing.MaxSteps {
		return fmt.Errorf("pricing.steps %d exceeds %d: %w", c.Pricing.Steps, pricing.MaxSteps, pricing.ErrInvalidStepCount)
	}
	if _, err := engine.ParseModel(c.Pricing.Model); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if (c.Data.Provider == "massive" || c.Data.Provider == "polygon") && c.Data.APIKey == "" {
		return fmt.Errorf("data.provider %s requires an api key", c.Data.Provider)
	}
	return nil
}

// Model returns the parsed default pricing model.
func (c *Config) Model() engine.Model {
	m, _ := engine.ParseModel(c.Pricing.Model)
	return m
}

// Verbosity returns the parsed logging level.
func (c *Config) Verbosity() logger.Level {
	l, _ := logger.ParseLevel(c.Logging.Level)
	return l
}
