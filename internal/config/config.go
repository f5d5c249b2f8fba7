package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable, e.g. BUDGET_SERVER_PORT
const EnvPrefix = "BUDGET"

// ConfigFileEnv points at an explicit config file
const ConfigFileEnv = "BUDGET_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"required_if=EnableCORS true"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output stdout"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	// TraceStdout prints finished spans to stdout
	TraceStdout bool `yaml:"trace_stdout" envconfig:"TRACE_STDOUT"`
}

// DataConfig locates the budget files
type DataConfig struct {
	Dir             string        `yaml:"dir" envconfig:"DIR" validate:"required"`
	Workbook        string        `yaml:"workbook" envconfig:"WORKBOOK" validate:"required"`
	CurrentExpenses DatasetConfig `yaml:"current_expenses" envconfig:"CURRENT_EXPENSES"`
	Districts       DatasetConfig `yaml:"districts" envconfig:"DISTRICTS"`
	IncomeExpense   DatasetConfig `yaml:"income_expense" envconfig:"INCOME_EXPENSE"`
}

// DatasetConfig describes one directory of per-period CSV files. Files maps
// periods to files explicitly; without it the period is cut out of each file
// name between PeriodStart and PeriodEnd.
type DatasetConfig struct {
	Dir              string             `yaml:"dir" envconfig:"DIR" validate:"required"`
	Files            []PeriodFileConfig `yaml:"files" ignored:"true" validate:"dive"`
	PeriodStart      int                `yaml:"period_start" envconfig:"PERIOD_START" validate:"gte=0"`
	PeriodEnd        int                `yaml:"period_end" envconfig:"PERIOD_END" validate:"gtfield=PeriodStart"`
	PeriodReplaceOld string             `yaml:"period_replace_old" envconfig:"PERIOD_REPLACE_OLD"`
	PeriodReplaceNew string             `yaml:"period_replace_new" envconfig:"PERIOD_REPLACE_NEW"`
	PeriodPrefix     string             `yaml:"period_prefix" envconfig:"PERIOD_PREFIX"`
}

// PeriodFileConfig binds one period to one file
type PeriodFileConfig struct {
	Period string `yaml:"period" validate:"required"`
	File   string `yaml:"file" validate:"required"`
	Tag    string `yaml:"tag" validate:"omitempty,oneof=income expense"`
}

// Rule returns the file name fallback for the dataset
func (d DatasetConfig) Rule() files.PeriodRule {
	return files.PeriodRule{
		Start:      d.PeriodStart,
		End:        d.PeriodEnd,
		ReplaceOld: d.PeriodReplaceOld,
		ReplaceNew: d.PeriodReplaceNew,
		Prefix:     d.PeriodPrefix,
	}
}

// Mappings returns the explicit period-to-file list, nil when none is configured
func (d DatasetConfig) Mappings() []files.Mapping {
	if len(d.Files) == 0 {
		return nil
	}
	out := make([]files.Mapping, len(d.Files))
	for i, f := range d.Files {
		out[i] = files.Mapping{Period: domain.Period(f.Period), File: f.File, Tag: f.Tag}
	}
	return out
}

// Path resolves a path relative to the data directory
func (d DataConfig) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(d.Dir, rel)
}

// WorkbookPath returns the overview workbook location
func (d DataConfig) WorkbookPath() string {
	return d.Path(d.Workbook)
}

// Load builds the configuration from defaults, the config file if one is
// found and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file; an empty path skips the file
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override, so file values survive
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on cfg; keys missing from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks ranges and required values
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "krk-budget-dashboard",
			Environment:   "development",
			EnableMetrics: true,
			EnableTracing: false,
		},
		Data: DataConfig{
			Dir:      "data/budget",
			Workbook: "data.xlsx",
			CurrentExpenses: DatasetConfig{
				Dir:         "wydatki_biezace",
				PeriodStart: 11,
				PeriodEnd:   21,
			},
			Districts: DatasetConfig{
				Dir:              "districts",
				PeriodStart:      21,
				PeriodEnd:        31,
				PeriodReplaceOld: "_",
				PeriodReplaceNew: ".",
			},
			IncomeExpense: DatasetConfig{
				Dir:          "doch_wyd",
				PeriodStart:  8,
				PeriodEnd:    12,
				PeriodPrefix: "01.01.",
			},
		},
	}
}
