package config

const envScoringConfig = "SCORING_CONFIG"

// ScoringConfig points at an optional YAML file overriding scoring weights.
type ScoringConfig struct {
	Path string
}

func loadScoring() ScoringConfig {
	return ScoringConfig{Path: envOrDefault(envScoringConfig, "")}
}
