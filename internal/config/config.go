package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"breachstudy/internal/eventstudy"
)

const (
	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "BREACHSTUDY"
	// DefaultConfigFile is consulted when no config file is named explicitly.
	DefaultConfigFile = "breachstudy.yaml"
)

// Config is the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
	Study   StudyConfig   `yaml:"study" envconfig:"STUDY"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
}

// LoggingConfig controls the structured logger. Records are always JSON.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output stdout"`
}

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=stdout none"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	Environment string  `yaml:"environment" envconfig:"ENVIRONMENT" validate:"required"`
}

// StudyConfig holds the event-study parameters. The fields mirror the engine
// configuration; EngineConfig converts between the two.
type StudyConfig struct {
	PreWindowDays          int           `yaml:"pre_window_days" envconfig:"PRE_WINDOW_DAYS" validate:"gt=0"`
	ShortHorizon           int           `yaml:"short_horizon" envconfig:"SHORT_HORIZON" validate:"gt=0"`
	LongHorizon            int           `yaml:"long_horizon" envconfig:"LONG_HORIZON" validate:"gtefield=ShortHorizon"`
	VolatilityWindowDays   int           `yaml:"volatility_window_days" envconfig:"VOLATILITY_WINDOW_DAYS" validate:"gt=0"`
	MinVolatilityObs       int           `yaml:"min_volatility_obs" envconfig:"MIN_VOLATILITY_OBS" validate:"gte=2,ltefield=VolatilityWindowDays"`
	AlignmentToleranceDays int           `yaml:"alignment_tolerance_days" envconfig:"ALIGNMENT_TOLERANCE_DAYS" validate:"gte=0"`
	MaxBenchmarkGaps       int           `yaml:"max_benchmark_gaps" envconfig:"MAX_BENCHMARK_GAPS" validate:"gte=0"`
	MaxConcurrency         int           `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"gt=0"`
	ComputeTimeout         time.Duration `yaml:"compute_timeout" envconfig:"COMPUTE_TIMEOUT" validate:"gt=0"`
}

// DataConfig names the input files. File paths may stay empty here and be
// supplied as command-line flags instead; the command validates presence
// after merging the two.
type DataConfig struct {
	ReturnsFile    string `yaml:"returns_file" envconfig:"RETURNS_FILE"`
	MarketFile     string `yaml:"market_file" envconfig:"MARKET_FILE"`
	IndexColumn    string `yaml:"index_column" envconfig:"INDEX_COLUMN" validate:"required"`
	EventsFile     string `yaml:"events_file" envconfig:"EVENTS_FILE"`
	IndustriesFile string `yaml:"industries_file" envconfig:"INDUSTRIES_FILE"`
	Benchmark      string `yaml:"benchmark" envconfig:"BENCHMARK" validate:"oneof=market industry"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Path carries no envconfig alt name. The tag's bare-name fallback
	// would read the system PATH variable whenever BREACHSTUDY_OUTPUT_PATH
	// is unset; the untagged field resolves to the same prefixed key.
	Path   string `yaml:"path" validate:"required"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx both"`
}

// Default returns the configuration used when no file or environment
// overrides anything. Study parameters mirror the engine defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/breachstudy.log",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "stdout",
			SampleRatio: 1.0,
			Environment: "development",
		},
		Study: StudyConfig{
			PreWindowDays:          eventstudy.DefaultPreWindowDays,
			ShortHorizon:           eventstudy.DefaultShortHorizon,
			LongHorizon:            eventstudy.DefaultLongHorizon,
			VolatilityWindowDays:   eventstudy.DefaultVolatilityWindowDays,
			MinVolatilityObs:       eventstudy.DefaultMinVolatilityObs,
			AlignmentToleranceDays: eventstudy.DefaultAlignmentToleranceDays,
			MaxBenchmarkGaps:       eventstudy.DefaultMaxBenchmarkGaps,
			MaxConcurrency:         eventstudy.DefaultMaxConcurrency,
			ComputeTimeout:         eventstudy.DefaultComputeTimeout,
		},
		Data: DataConfig{
			IndexColumn: "vwretd",
			Benchmark:   "market",
		},
		Output: OutputConfig{
			Path:   "results/event_study.csv",
			Format: "csv",
		},
	}
}

// Load assembles the configuration from three layers: defaults, then the
// YAML config file, then BREACHSTUDY_* environment variables. A config file
// named explicitly must exist; the default file is optional.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	switch {
	case configPath != "":
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	default:
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			if err := loadFromFile(DefaultConfigFile, cfg); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML file values onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

var validate = validator.New()

// Validate checks the assembled configuration and reports every violated
// constraint in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// formatFieldError renders one violated constraint in plain language.
func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, param)
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// EngineConfig converts the study section into the engine's configuration.
func (c *Config) EngineConfig() eventstudy.Config {
	return eventstudy.Config{
		PreWindowDays:          c.Study.PreWindowDays,
		ShortHorizon:           c.Study.ShortHorizon,
		LongHorizon:            c.Study.LongHorizon,
		VolatilityWindowDays:   c.Study.VolatilityWindowDays,
		MinVolatilityObs:       c.Study.MinVolatilityObs,
		AlignmentToleranceDays: c.Study.AlignmentToleranceDays,
		MaxBenchmarkGaps:       c.Study.MaxBenchmarkGaps,
		MaxConcurrency:         c.Study.MaxConcurrency,
		ComputeTimeout:         c.Study.ComputeTimeout,
	}
}
