package config

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const (
	envBuzzEnabled      = "BUZZ_ENABLED"
	envAnthropicKey     = "ANTHROPIC_API_KEY"
	envAnthropicBaseURL = "ANTHROPIC_BASE_URL"
	envBuzzModel        = "BUZZ_MODEL"
	envBuzzTimeout      = "BUZZ_TIMEOUT"

	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultBuzzModel        = "claude-sonnet-4-5-20250929"
	// Web search turns are slow; one batch call can take well over a minute.
	defaultBuzzTimeout = 2 * time.Minute

	keychainService = "anthropic-api-key"
	keychainAccount = "api-key"
	keychainTimeout = 5 * time.Second
)

// BuzzConfig controls the AI-assisted buzz signal.
type BuzzConfig struct {
	Enabled bool
	APIKey  string
	// KeySource records where the key came from ("keychain", "env" or "").
	KeySource string
	BaseURL   string
	Model     string
	Timeout   Duration
}

// keychainLookup reads the key from the macOS keychain. Tests replace it.
var keychainLookup = func(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "security", "find-generic-password",
		"-s", keychainService, "-a", keychainAccount, "-w").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func loadBuzz() BuzzConfig {
	cfg := BuzzConfig{
		Enabled: boolEnvOrDefault(envBuzzEnabled, true),
		BaseURL: envOrDefault(envAnthropicBaseURL, defaultAnthropicBaseURL),
		Model:   envOrDefault(envBuzzModel, defaultBuzzModel),
		Timeout: durationEnvOrDefault(envBuzzTimeout, defaultBuzzTimeout),
	}
	if cfg.Enabled {
		cfg.APIKey, cfg.KeySource = resolveAnthropicKey()
	}
	return cfg
}

// resolveAnthropicKey prefers the keychain and falls back to the environment.
func resolveAnthropicKey() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), keychainTimeout)
	defer cancel()
	if key, err := keychainLookup(ctx); err == nil && key != "" {
		return key, "keychain"
	}
	if key := strings.TrimSpace(envOrDefault(envAnthropicKey, "")); key != "" {
		return key, "env"
	}
	return "", ""
}
