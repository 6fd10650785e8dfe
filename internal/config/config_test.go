package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func withKeychain(t *testing.T, key string, err error) {
	t.Helper()
	orig := keychainLookup
	keychainLookup = func(context.Context) (string, error) { return key, err }
	t.Cleanup(func() { keychainLookup = orig })
}

func TestLoadDefaults(t *testing.T) {
	withKeychain(t, "", errors.New("no keychain"))
	t.Setenv(envAnthropicKey, "")

	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Provider != defaultProvider {
		t.Fatalf("expected default provider %s, got %s", defaultProvider, cfg.Provider)
	}
	if cfg.Timezone != defaultTimezone {
		t.Fatalf("expected default timezone %s, got %s", defaultTimezone, cfg.Timezone)
	}
	if cfg.NBAStats.BaseURL != defaultNBABaseURL || cfg.NBAStats.RequestDelay != defaultNBARequestDelay {
		t.Fatalf("unexpected nba stats defaults %+v", cfg.NBAStats)
	}
	if cfg.Balldontlie.BaseURL != defaultBdlBaseURL {
		t.Fatalf("expected default balldontlie base url %s, got %s", defaultBdlBaseURL, cfg.Balldontlie.BaseURL)
	}
	if cfg.Balldontlie.APIKey != "" {
		t.Fatalf("expected empty balldontlie api key by default, got %s", cfg.Balldontlie.APIKey)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 5*time.Minute || cfg.Cache.MaxEntries != 100 {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Store.Enabled() || cfg.Store.SyncDays != 7 {
		t.Fatalf("unexpected store defaults %+v", cfg.Store)
	}
	if cfg.Buzz.APIKey != "" || cfg.Buzz.KeySource != "" {
		t.Fatalf("expected no buzz key, got %+v", cfg.Buzz)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.AdminToken != "" {
		t.Fatalf("expected admin endpoint disabled by default, got %q", cfg.AdminToken)
	}
}

func TestLoadOverrides(t *testing.T) {
	withKeychain(t, "", errors.New("no keychain"))
	t.Setenv(envPort, "5000")
	t.Setenv(envProvider, "balldontlie")
	t.Setenv(envBackupProvider, "nbastats")
	t.Setenv(envBdlBaseURL, "http://example.com/api")
	t.Setenv(envBdlAPIKey, "secret-key")
	t.Setenv(envCacheBackend, "redis")
	t.Setenv(envRedisURL, "redis://localhost:6379/0")
	t.Setenv(envStoreDSN, "file:games.db")
	t.Setenv(envSyncSchedule, "0 6 * * *")
	t.Setenv(envCORSOrigins, "https://a.example, https://b.example")
	t.Setenv(envAdminToken, "admin-secret")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Provider != "balldontlie" || cfg.BackupProvider != "nbastats" {
		t.Fatalf("unexpected providers %s/%s", cfg.Provider, cfg.BackupProvider)
	}
	if cfg.Balldontlie.BaseURL != "http://example.com/api" || cfg.Balldontlie.APIKey != "secret-key" {
		t.Fatalf("unexpected balldontlie config %+v", cfg.Balldontlie)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL == "" {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if !cfg.Store.Enabled() || cfg.Store.SyncSchedule != "0 6 * * *" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.AdminToken != "admin-secret" {
		t.Fatalf("unexpected admin token %q", cfg.AdminToken)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envWarmInterval, "not-a-duration")
	t.Setenv(envFetchTimeout, "0s")
	t.Setenv(envFetchPerDay, "-1s")

	cfg := Load()

	if cfg.WarmInterval != defaultWarmInterval {
		t.Fatalf("expected default warm interval on invalid value, got %s", cfg.WarmInterval)
	}
	if cfg.FetchTimeout != defaultFetchTimeout {
		t.Fatalf("expected default fetch timeout on non-positive value, got %s", cfg.FetchTimeout)
	}
	if cfg.FetchPerDay != defaultFetchPerDay {
		t.Fatalf("expected default per-day fetch budget, got %s", cfg.FetchPerDay)
	}
}

func TestAnthropicKeyPrefersKeychain(t *testing.T) {
	withKeychain(t, "from-keychain", nil)
	t.Setenv(envAnthropicKey, "from-env")

	cfg := Load()
	if cfg.Buzz.APIKey != "from-keychain" || cfg.Buzz.KeySource != "keychain" {
		t.Fatalf("expected keychain key, got %+v", cfg.Buzz)
	}
}

func TestAnthropicKeyFallsBackToEnv(t *testing.T) {
	withKeychain(t, "", errors.New("security: not found"))
	t.Setenv(envAnthropicKey, "from-env")

	cfg := Load()
	if cfg.Buzz.APIKey != "from-env" || cfg.Buzz.KeySource != "env" {
		t.Fatalf("expected env key, got %+v", cfg.Buzz)
	}
}

func TestBuzzDisabledSkipsKeyLookup(t *testing.T) {
	called := false
	orig := keychainLookup
	keychainLookup = func(context.Context) (string, error) {
		called = true
		return "x", nil
	}
	t.Cleanup(func() { keychainLookup = orig })
	t.Setenv(envBuzzEnabled, "false")

	cfg := Load()
	if called || cfg.Buzz.APIKey != "" {
		t.Fatal("expected no key lookup when buzz disabled")
	}
}

func TestPortsAcceptLeadingColon(t *testing.T) {
	t.Setenv(envPort, ":8081")
	t.Setenv(envMetricsPort, " :9191 ")

	cfg := Load()
	if cfg.Port != "8081" || cfg.Metrics.Port != "9191" {
		t.Fatalf("expected bare ports, got %q %q", cfg.Port, cfg.Metrics.Port)
	}
}
