// internal/config/config.go
//
// Layered server configuration.
// Order (later wins):
//   - built-in defaults
//   - optional YAML file (--config or KONNECTIONS_CONFIG)
//   - process environment (main loads .env into it first)
//
// Validate reports settings that cannot work together, e.g. the gcs backend
// without a bucket.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendGCS    = "gcs"
)

// Source providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config is the full server configuration.
type Config struct {
	Port           string        `yaml:"port"`
	LogLevel       string        `yaml:"logLevel"`
	Timezone       string        `yaml:"timezone"`
	ClientOrigin   string        `yaml:"clientOrigin"`
	HandlerTimeout time.Duration `yaml:"handlerTimeout"`

	Store     StoreConfig     `yaml:"store"`
	Source    SourceConfig    `yaml:"source"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// StoreConfig selects and configures the puzzle store.
type StoreConfig struct {
	Backend         string `yaml:"backend"`
	SQLitePath      string `yaml:"sqlitePath"`
	GCSBucket       string `yaml:"gcsBucket"`
	GCSPrefix       string `yaml:"gcsPrefix"`
	CredentialsFile string `yaml:"credentialsFile"`
}

// SourceConfig selects and configures the puzzle generator.
type SourceConfig struct {
	Provider      string        `yaml:"provider"`
	Timeout       time.Duration `yaml:"timeout"`
	OpenAIKey     string        `yaml:"openaiKey"`
	OpenAIModel   string        `yaml:"openaiModel"`
	OpenAIBaseURL string        `yaml:"openaiBaseURL"`
	GeminiKey     string        `yaml:"geminiKey"`
	GeminiModel   string        `yaml:"geminiModel"`
}

// RateLimitConfig bounds requests per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           "5175",
		LogLevel:       "info",
		Timezone:       "UTC",
		ClientOrigin:   "http://localhost:5173",
		HandlerTimeout: 90 * time.Second,
		Store: StoreConfig{
			Backend:    BackendMemory,
			SQLitePath: "./data/konnections.db",
		},
		Source: SourceConfig{
			Provider: ProviderNone,
			Timeout:  60 * time.Second,
		},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 20},
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("KONNECTIONS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(k string, dst *string) {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("TZ_NAME", &c.Timezone)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("STORE_BACKEND", &c.Store.Backend)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("GCS_BUCKET", &c.Store.GCSBucket)
	str("GCS_PREFIX", &c.Store.GCSPrefix)
	str("GCS_CREDENTIALS_FILE", &c.Store.CredentialsFile)
	str("SOURCE_PROVIDER", &c.Source.Provider)
	str("OPENAI_API_KEY", &c.Source.OpenAIKey)
	str("OPENAI_MODEL", &c.Source.OpenAIModel)
	str("OPENAI_BASE_URL", &c.Source.OpenAIBaseURL)
	str("GEMINI_API_KEY", &c.Source.GeminiKey)
	str("GEMINI_MODEL", &c.Source.GeminiModel)

	var errs []error
	dur := func(k string, dst *time.Duration) {
		if v := os.Getenv(k); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", k, err))
				return
			}
			*dst = d
		}
	}
	dur("HANDLER_TIMEOUT", &c.HandlerTimeout)
	dur("SOURCE_TIMEOUT", &c.Source.Timeout)

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: %w", err))
		} else {
			c.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST: %w", err))
		} else {
			c.RateLimit.Burst = n
		}
	}
	return errors.Join(errs...)
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate checks the combination of settings.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if c.HandlerTimeout <= 0 {
		errs = append(errs, errors.New("handler timeout must be positive"))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite backend needs SQLITE_PATH"))
		}
	case BackendGCS:
		if c.Store.GCSBucket == "" {
			errs = append(errs, errors.New("gcs backend needs GCS_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}

	switch c.Source.Provider {
	case ProviderNone:
	case ProviderOpenAI:
		if c.Source.OpenAIKey == "" {
			errs = append(errs, errors.New("openai provider needs OPENAI_API_KEY"))
		}
	case ProviderGemini:
		if c.Source.GeminiKey == "" {
			errs = append(errs, errors.New("gemini provider needs GEMINI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source provider %q", c.Source.Provider))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, errors.New("source timeout must be positive"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate limit burst must be at least 1"))
	}
	return errors.Join(errs...)
}
