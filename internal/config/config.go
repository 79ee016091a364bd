// Package config loads the intake agent configuration from an optional file,
// INTAKE_* environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/job-intake/internal/extraction"
	"github.com/jonathan/job-intake/internal/llm"
	"github.com/jonathan/job-intake/internal/schemas"
	"github.com/jonathan/job-intake/internal/types"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. INTAKE_LOG_LEVEL.
const EnvPrefix = "INTAKE"

// Config is the full runtime configuration.
type Config struct {
	// Schema names a built-in field schema. Ignored when SchemaFile is set.
	Schema     string           `mapstructure:"schema" validate:"required_without=SchemaFile"`
	SchemaFile string           `mapstructure:"schema_file"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Output     OutputConfig     `mapstructure:"output"`
	// DatabaseURL enables the PostgreSQL archive when set.
	DatabaseURL string       `mapstructure:"database_url"`
	Server      ServerConfig `mapstructure:"server"`
	LogLevel    string       `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// ExtractionConfig selects and bounds extraction.
type ExtractionConfig struct {
	Strategy  string        `mapstructure:"strategy" validate:"oneof=model pattern"`
	MaxRounds int           `mapstructure:"max_rounds" validate:"min=1,max=100"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LLMConfig configures the text-understanding service.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" validate:"oneof=gemini openai deepseek"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey      string  `mapstructure:"api_key"`
	Temperature float64 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxRetries  int     `mapstructure:"max_retries" validate:"min=0,max=10"`
}

// OutputConfig controls the JSON file written per session.
type OutputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ServerConfig configures the HTTP endpoint.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
	// JWTSecret enables bearer auth on /parse-input when set.
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours" validate:"min=1"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute" validate:"min=0"`
}

var defaults = map[string]any{
	"schema":                       types.SchemaJob,
	"schema_file":                  "",
	"extraction.strategy":          string(extraction.StrategyModel),
	"extraction.max_rounds":        10,
	"extraction.timeout":           "60s",
	"llm.provider":                 string(llm.ProviderGemini),
	"llm.model":                    "",
	"llm.base_url":                 "",
	"llm.api_key":                  "",
	"llm.temperature":              0.0,
	"llm.max_retries":              2,
	"output.path":                  "data.json",
	"database_url":                 "",
	"server.port":                  8080,
	"server.jwt_secret":            "",
	"server.jwt_expiration_hours":  24,
	"server.rate_limit_per_minute": 30,
	"log_level":                    "info",
}

// Conventional variables accepted alongside the INTAKE_ ones.
var envAliases = map[string]string{
	"database_url":                "DATABASE_URL",
	"server.jwt_secret":           "JWT_SECRET",
	"server.jwt_expiration_hours": "JWT_EXPIRATION_HOURS",
	"server.port":                 "PORT",
}

// Load reads configuration. path may be empty, in which case ./intake.yaml is
// used if present. overrides (viper keys such as "extraction.strategy") win
// over every other source.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, alias); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("intake")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var configValidator = validator.New()

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// FieldSchema resolves the active schema: a YAML field set when SchemaFile
// is set, otherwise a built-in.
func (c *Config) FieldSchema() (types.FieldSchema, error) {
	if c.SchemaFile != "" {
		return schemas.LoadFieldSet(c.SchemaFile)
	}
	return types.BuiltinSchema(c.Schema)
}

// Strategy returns the configured extraction strategy.
func (c *Config) Strategy() extraction.Strategy {
	return extraction.Strategy(c.Extraction.Strategy)
}

// ModelConfig builds the llm configuration, starting from the provider's
// defaults and applying any values set here.
func (c *Config) ModelConfig() *llm.Config {
	out := llm.DefaultConfig(llm.Provider(c.LLM.Provider))
	if c.LLM.Model != "" {
		out.Model = c.LLM.Model
	}
	if c.LLM.BaseURL != "" {
		out.BaseURL = c.LLM.BaseURL
	}
	out.APIKey = c.LLM.APIKey
	out.Temperature = c.LLM.Temperature
	out.MaxRetries = c.LLM.MaxRetries
	return out
}
