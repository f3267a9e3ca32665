package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.BaseURL != defaultCatalogBaseURL {
		t.Errorf("expected default catalog base url, got %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.RefreshPageSize != defaultCatalogPageSize {
		t.Errorf("unexpected refresh page size: %d", cfg.Catalog.RefreshPageSize)
	}
	if cfg.Catalog.RefreshInterval != 0 {
		t.Errorf("expected background refresh disabled by default, got %s", cfg.Catalog.RefreshInterval)
	}
	if cfg.Estimator.Model != defaultEstimatorModel {
		t.Errorf("unexpected default estimator model: %s", cfg.Estimator.Model)
	}
	if cfg.Estimator.MaxTokens != defaultEstimatorMaxTokens {
		t.Errorf("unexpected default estimator max tokens: %d", cfg.Estimator.MaxTokens)
	}
	if cfg.Estimator.Temperature != defaultEstimatorTemperature {
		t.Errorf("unexpected default estimator temperature: %f", cfg.Estimator.Temperature)
	}
	if cfg.Session.RedisURL != "" {
		t.Errorf("expected in-memory session store by default, got %s", cfg.Session.RedisURL)
	}
	if cfg.Session.TTL != defaultSessionTTL {
		t.Errorf("unexpected default session ttl: %s", cfg.Session.TTL)
	}
	if !cfg.Features.EnableCatalogRefresh || !cfg.Features.EnableEstimator {
		t.Errorf("expected features enabled by default, got %+v", cfg.Features)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_SERVER_PORT":               "9090",
		"STOREFRONT_SERVER_READ_TIMEOUT":       "20s",
		"STOREFRONT_SERVER_WRITE_TIMEOUT":      "25s",
		"STOREFRONT_SERVER_IDLE_TIMEOUT":       "2m",
		"STOREFRONT_CATALOG_BASE_URL":          "https://catalog.example.com/api",
		"STOREFRONT_CATALOG_TIMEOUT":           "5s",
		"STOREFRONT_CATALOG_REFRESH_PAGE_SIZE": "50",
		"STOREFRONT_CATALOG_REFRESH_INTERVAL":  "10m",
		"STOREFRONT_ESTIMATOR_API_KEY":         "test-key",
		"STOREFRONT_ESTIMATOR_MODEL":           "gemini-1.5-pro",
		"STOREFRONT_ESTIMATOR_MAX_TOKENS":      "900",
		"STOREFRONT_ESTIMATOR_TEMPERATURE":     "0.2",
		"STOREFRONT_REDIS_URL":                 "redis://localhost:6379/0",
		"STOREFRONT_SESSION_TTL":               "12h",
		"STOREFRONT_FEATURE_CATALOG_REFRESH":   "false",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Catalog.BaseURL != "https://catalog.example.com/api" {
		t.Errorf("unexpected catalog base url: %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 5*time.Second {
		t.Errorf("unexpected catalog timeout: %s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.RefreshPageSize != 50 {
		t.Errorf("unexpected refresh page size: %d", cfg.Catalog.RefreshPageSize)
	}
	if cfg.Catalog.RefreshInterval != 10*time.Minute {
		t.Errorf("unexpected refresh interval: %s", cfg.Catalog.RefreshInterval)
	}
	if cfg.Estimator.APIKey != "test-key" {
		t.Errorf("unexpected estimator api key: %s", cfg.Estimator.APIKey)
	}
	if cfg.Estimator.MaxTokens != 900 {
		t.Errorf("unexpected estimator max tokens: %d", cfg.Estimator.MaxTokens)
	}
	if cfg.Estimator.Temperature != 0.2 {
		t.Errorf("unexpected estimator temperature: %f", cfg.Estimator.Temperature)
	}
	if cfg.Session.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis url: %s", cfg.Session.RedisURL)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("unexpected session ttl: %s", cfg.Session.TTL)
	}
	if cfg.Features.EnableCatalogRefresh {
		t.Errorf("expected catalog refresh disabled")
	}
	if !cfg.Features.EnableEstimator {
		t.Errorf("expected estimator still enabled")
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "STOREFRONT_SERVER_PORT=7070\nexport STOREFRONT_ESTIMATOR_MODEL=\"gemini-test\"\n# comment\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envFile), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from env file, got %s", cfg.Server.Port)
	}
	if cfg.Estimator.Model != "gemini-test" {
		t.Errorf("expected model from env file with quotes stripped, got %s", cfg.Estimator.Model)
	}
}

func TestLoadEnvMapTakesPrecedenceOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("STOREFRONT_SERVER_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	cfg, err := Load(
		WithEnvFile(envFile),
		WithEnvMap(map[string]string{"STOREFRONT_SERVER_PORT": "6060"}),
		WithoutSystemEnv(),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "6060" {
		t.Errorf("expected env map to win, got %s", cfg.Server.Port)
	}
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_CATALOG_BASE_URL": "   ",
		"STOREFRONT_SESSION_TTL":      "-1h",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	fields := validationErr.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected two invalid fields, got %v", fields)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_SERVER_READ_TIMEOUT":       "soon",
		"STOREFRONT_CATALOG_REFRESH_PAGE_SIZE": "lots",
		"STOREFRONT_ESTIMATOR_TEMPERATURE":     "warm",
		"STOREFRONT_FEATURE_ESTIMATOR":         "maybe",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected fallback read timeout, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.RefreshPageSize != defaultCatalogPageSize {
		t.Errorf("expected fallback page size, got %d", cfg.Catalog.RefreshPageSize)
	}
	if cfg.Estimator.Temperature != defaultEstimatorTemperature {
		t.Errorf("expected fallback temperature, got %f", cfg.Estimator.Temperature)
	}
	if !cfg.Features.EnableEstimator {
		t.Errorf("expected fallback feature flag true")
	}
}
