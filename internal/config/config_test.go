package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("expected default poll interval 30s, got %s", cfg.PollInterval)
	}
	if cfg.Provider != defaultProvider {
		t.Fatalf("expected default provider %s, got %s", defaultProvider, cfg.Provider)
	}
	if cfg.Balldontlie.BaseURL != defaultBdlBaseURL {
		t.Fatalf("expected default balldontlie base url %s, got %s", defaultBdlBaseURL, cfg.Balldontlie.BaseURL)
	}
	if cfg.Balldontlie.APIKey != "" {
		t.Fatalf("expected empty balldontlie api key by default, got %s", cfg.Balldontlie.APIKey)
	}
	if cfg.Balldontlie.Season != 0 {
		t.Fatalf("expected derived season by default, got %d", cfg.Balldontlie.Season)
	}
	if cfg.Balldontlie.MaxPages != defaultBdlMaxPages {
		t.Fatalf("expected %d season pages by default, got %d", defaultBdlMaxPages, cfg.Balldontlie.MaxPages)
	}
	if cfg.Upstream.Retries != 3 || cfg.Upstream.RetryStep != time.Second {
		t.Fatalf("expected 3 retries with 1s step, got %+v", cfg.Upstream)
	}
	if cfg.Upstream.RatePerMinute != 0 || cfg.Upstream.BreakerEnabled {
		t.Fatalf("expected limiter and breaker off by default, got %+v", cfg.Upstream)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("expected redis bridge disabled by default")
	}
	if cfg.WarmStart {
		t.Fatalf("expected warm start off by default")
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envPollInterval, "45s")
	t.Setenv(envProvider, "fixture")
	t.Setenv(envBdlBaseURL, "http://example.com/api")
	t.Setenv(envBdlAPIKey, "secret-key")
	t.Setenv(envBdlSeason, "2023")
	t.Setenv(envBdlMaxPages, "12")
	t.Setenv(envFetchRetries, "5")
	t.Setenv(envRetryStep, "250ms")
	t.Setenv(envRatePerMinute, "30")
	t.Setenv(envBreakerOn, "true")
	t.Setenv(envRedisAddr, "localhost:6379")
	t.Setenv(envWarmStart, "yes")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("expected poll interval 45s, got %s", cfg.PollInterval)
	}
	if cfg.Provider != "fixture" {
		t.Fatalf("expected provider fixture, got %s", cfg.Provider)
	}
	if cfg.Balldontlie.BaseURL != "http://example.com/api" {
		t.Fatalf("expected balldontlie base url override, got %s", cfg.Balldontlie.BaseURL)
	}
	if cfg.Balldontlie.APIKey != "secret-key" {
		t.Fatalf("expected balldontlie api key override, got %s", cfg.Balldontlie.APIKey)
	}
	if cfg.Balldontlie.Season != 2023 || cfg.Balldontlie.MaxPages != 12 {
		t.Fatalf("expected season 2023 over 12 pages, got %+v", cfg.Balldontlie)
	}
	if cfg.Upstream.Retries != 5 || cfg.Upstream.RetryStep != 250*time.Millisecond {
		t.Fatalf("unexpected retry overrides %+v", cfg.Upstream)
	}
	if cfg.Upstream.RatePerMinute != 30 || !cfg.Upstream.BreakerEnabled {
		t.Fatalf("unexpected upstream overrides %+v", cfg.Upstream)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.StreamPrefix != defaultRedisPrefix {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if !cfg.WarmStart {
		t.Fatalf("expected warm start enabled")
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "not-a-duration")

	cfg := Load()

	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on invalid value, got %s", cfg.PollInterval)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "0s")

	cfg := Load()

	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on non-positive value, got %s", cfg.PollInterval)
	}
}

func TestLoadFileReadsYAMLAndEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refresher.yaml")
	body := "poll_interval: 10s\nballdontlie_api_key: from-file\nfetch_retries: 4\nport: \"7000\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envPort, "8000")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("expected poll interval from file, got %s", cfg.PollInterval)
	}
	if cfg.Balldontlie.APIKey != "from-file" {
		t.Fatalf("expected api key from file, got %s", cfg.Balldontlie.APIKey)
	}
	if cfg.Upstream.Retries != 4 {
		t.Fatalf("expected retries from file, got %d", cfg.Upstream.Retries)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected env to override file, got %s", cfg.Port)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFileEmptyPathUsesEnv(t *testing.T) {
	t.Setenv(envProvider, "fixture")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "fixture" {
		t.Fatalf("expected env provider, got %s", cfg.Provider)
	}
}
