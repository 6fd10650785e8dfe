package config

import "strings"

// MetricsConfig controls the Prometheus listener and optional OTLP push.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, true),
		Port:         listenPort(envOrDefault(envMetricsPort, defaultMetricsPort)),
		ServiceName:  envOrDefault(envOtelService, "nba-game-recommender"),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
	}
}

// listenPort accepts "9090" or ":9090".
func listenPort(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), ":")
}
