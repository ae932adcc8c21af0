package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete aggregation run configuration. It is
// validated once, before any input file is read; a validation failure
// aborts the run with no output written.
type Config struct {
	Inputs   InputsConfig   `yaml:"inputs" envconfig:"INPUTS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Currency CurrencyConfig `yaml:"currency" envconfig:"CURRENCY"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputsConfig describes where source exports live and how far back the
// aggregation reaches.
type InputsConfig struct {
	// Dirs are scanned recursively for .csv/.xls/.xlsx files. Directory
	// order matters: later directories win deduplication ties, so
	// operators place corrected exports after stale ones.
	Dirs []string `yaml:"dirs" envconfig:"DIRS"`
	// Years restricts the series to the trailing N years. Zero means no
	// year-based cutoff.
	Years int `yaml:"years" envconfig:"YEARS" validate:"oneof=0 1 2 3"`
	// Since restricts the series to dates >= this ISO date.
	Since string `yaml:"since" envconfig:"SINCE" validate:"omitempty,datetime=2006-01-02"`
}

// OutputConfig describes where the canonical series is written.
type OutputConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"data/pzu_history.csv" validate:"required"`
	// SplitYears also emits trailing 1/2/3-year slices next to Path.
	SplitYears bool `yaml:"split_years" envconfig:"SPLIT_YEARS"`
}

// CurrencyConfig describes the re-denomination applied to prices.
type CurrencyConfig struct {
	Source string `yaml:"source" envconfig:"SOURCE" default:"RON" validate:"required,len=3,alpha"`
	Target string `yaml:"target" envconfig:"TARGET" default:"EUR" validate:"required,len=3,alpha"`
	// FxRate is the RON per 1 EUR rate (e.g. 4.97). Mandatory only when a
	// RON->EUR conversion is requested; the converter rejects the run
	// before any file is read if it is missing.
	FxRate float64 `yaml:"fx_rate" envconfig:"FX_RATE" validate:"omitempty,gt=0"`
}

// PipelineConfig bounds the per-file parsing work.
type PipelineConfig struct {
	Workers     int           `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`
	FileTimeout time.Duration `yaml:"file_timeout" envconfig:"FILE_TIMEOUT" default:"30s" validate:"min=1s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/aggregator.log"`
}

// Load builds the configuration from environment variables (OPCOM_*
// prefix) merged with an optional YAML file. Environment takes precedence
// over the file, matching flag > env > file > default resolution once the
// CLI applies its flag overrides on top.
func Load(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("OPCOM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// Env fields still holding their envconfig defaults yield to explicit file
// values only where the file set something non-zero.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if len(envConfig.Inputs.Dirs) == 0 {
		envConfig.Inputs.Dirs = fileConfig.Inputs.Dirs
	}
	if envConfig.Inputs.Years == 0 {
		envConfig.Inputs.Years = fileConfig.Inputs.Years
	}
	if envConfig.Inputs.Since == "" {
		envConfig.Inputs.Since = fileConfig.Inputs.Since
	}
	if fileConfig.Output.Path != "" && os.Getenv("OPCOM_OUTPUT_PATH") == "" {
		envConfig.Output.Path = fileConfig.Output.Path
	}
	if fileConfig.Output.SplitYears {
		envConfig.Output.SplitYears = true
	}
	if fileConfig.Currency.Source != "" && os.Getenv("OPCOM_CURRENCY_SOURCE") == "" {
		envConfig.Currency.Source = fileConfig.Currency.Source
	}
	if fileConfig.Currency.Target != "" && os.Getenv("OPCOM_CURRENCY_TARGET") == "" {
		envConfig.Currency.Target = fileConfig.Currency.Target
	}
	if envConfig.Currency.FxRate == 0 {
		envConfig.Currency.FxRate = fileConfig.Currency.FxRate
	}
	if fileConfig.Pipeline.Workers != 0 && os.Getenv("OPCOM_PIPELINE_WORKERS") == "" {
		envConfig.Pipeline.Workers = fileConfig.Pipeline.Workers
	}
	if fileConfig.Pipeline.FileTimeout != 0 && os.Getenv("OPCOM_PIPELINE_FILE_TIMEOUT") == "" {
		envConfig.Pipeline.FileTimeout = fileConfig.Pipeline.FileTimeout
	}
	if fileConfig.Logging.Level != "" && os.Getenv("OPCOM_LOGGING_LEVEL") == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && os.Getenv("OPCOM_LOGGING_FORMAT") == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && os.Getenv("OPCOM_LOGGING_OUTPUT") == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && os.Getenv("OPCOM_LOGGING_FILE_PATH") == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	return envConfig
}

// Validate checks the configuration before any file is touched.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Cutoff resolves the inclusive date lower bound from Years and Since.
// When both are set the later (more restrictive) bound wins. The second
// return value reports whether any cutoff applies.
func (c *Config) Cutoff(now time.Time) (time.Time, bool, error) {
	var cutoff time.Time
	var have bool

	if c.Inputs.Years > 0 {
		cutoff = now.AddDate(0, 0, -365*c.Inputs.Years)
		have = true
	}
	if c.Inputs.Since != "" {
		since, err := time.Parse("2006-01-02", c.Inputs.Since)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid since date %q: %w", c.Inputs.Since, err)
		}
		if !have || since.After(cutoff) {
			cutoff = since
		}
		have = true
	}
	if !have {
		return time.Time{}, false, nil
	}
	// Only the calendar date participates in the comparison.
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	return cutoff, true, nil
}
