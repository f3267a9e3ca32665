package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultCatalogBaseURL    = "http://localhost:8000/api"
	defaultCatalogTimeout    = 15 * time.Second
	defaultCatalogPageSize   = 20
	defaultCatalogRefreshGap = 0 * time.Minute

	defaultEstimatorBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultEstimatorModel       = "gemini-1.5-flash"
	defaultEstimatorMaxTokens   = 600
	defaultEstimatorTemperature = 0.7
	defaultEstimatorTimeout     = 30 * time.Second

	defaultSessionTTL = 24 * time.Hour
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Estimator EstimatorConfig
	Session   SessionConfig
	Features  FeatureFlags
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CatalogConfig points at the remote catalog backend and controls ingestion.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
	// RefreshPageSize is the page size requested during ingestion.
	RefreshPageSize int
	// RefreshInterval drives the background re-ingestion ticker; zero disables it.
	RefreshInterval time.Duration
}

// EstimatorConfig holds the generative-text backend settings.
type EstimatorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// SessionConfig controls session storage. An empty RedisURL selects the
// in-memory store.
type SessionConfig struct {
	RedisURL string
	TTL      time.Duration
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableCatalogRefresh bool
	EnableEstimator      bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "STOREFRONT_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Catalog: CatalogConfig{
			BaseURL:         stringWithDefault(lookup, "STOREFRONT_CATALOG_BASE_URL", defaultCatalogBaseURL),
			Timeout:         durationWithDefault(lookup, "STOREFRONT_CATALOG_TIMEOUT", defaultCatalogTimeout),
			RefreshPageSize: intWithDefault(lookup, "STOREFRONT_CATALOG_REFRESH_PAGE_SIZE", defaultCatalogPageSize),
			RefreshInterval: durationWithDefault(lookup, "STOREFRONT_CATALOG_REFRESH_INTERVAL", defaultCatalogRefreshGap),
		},
		Estimator: EstimatorConfig{
			APIKey:      stringWithDefault(lookup, "STOREFRONT_ESTIMATOR_API_KEY", ""),
			BaseURL:     stringWithDefault(lookup, "STOREFRONT_ESTIMATOR_BASE_URL", defaultEstimatorBaseURL),
			Model:       stringWithDefault(lookup, "STOREFRONT_ESTIMATOR_MODEL", defaultEstimatorModel),
			MaxTokens:   intWithDefault(lookup, "STOREFRONT_ESTIMATOR_MAX_TOKENS", defaultEstimatorMaxTokens),
			Temperature: floatWithDefault(lookup, "STOREFRONT_ESTIMATOR_TEMPERATURE", defaultEstimatorTemperature),
			Timeout:     durationWithDefault(lookup, "STOREFRONT_ESTIMATOR_TIMEOUT", defaultEstimatorTimeout),
		},
		Session: SessionConfig{
			RedisURL: stringWithDefault(lookup, "STOREFRONT_REDIS_URL", ""),
			TTL:      durationWithDefault(lookup, "STOREFRONT_SESSION_TTL", defaultSessionTTL),
		},
		Features: FeatureFlags{
			EnableCatalogRefresh: boolWithDefault(lookup, "STOREFRONT_FEATURE_CATALOG_REFRESH", true),
			EnableEstimator:      boolWithDefault(lookup, "STOREFRONT_FEATURE_ESTIMATOR", true),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		missing = append(missing, "Server.Port")
	}
	if strings.TrimSpace(cfg.Catalog.BaseURL) == "" {
		missing = append(missing, "Catalog.BaseURL")
	}
	if cfg.Catalog.RefreshPageSize <= 0 {
		missing = append(missing, "Catalog.RefreshPageSize")
	}
	if cfg.Session.TTL <= 0 {
		missing = append(missing, "Session.TTL")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatWithDefault(lookup func(string) (string, bool), key string, fallback float64) float64 {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
