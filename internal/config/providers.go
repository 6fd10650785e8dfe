package config

import "time"

const (
	envNBABaseURL      = "NBA_STATS_BASE_URL"
	envNBATimeout      = "NBA_STATS_TIMEOUT"
	envNBARequestDelay = "NBA_STATS_REQUEST_DELAY"

	envBdlBaseURL      = "BALLDONTLIE_BASE_URL"
	envBdlAPIKey       = "BALLDONTLIE_API_KEY"
	envBdlRequestDelay = "BALLDONTLIE_REQUEST_DELAY"

	defaultNBABaseURL = "https://stats.nba.com/stats"
	defaultNBATimeout = 15 * time.Second
	// stats.nba.com throttles bursts aggressively.
	defaultNBARequestDelay = 600 * time.Millisecond

	defaultBdlBaseURL = "https://api.balldontlie.io/v1"
	// balldontlie allows roughly 100 requests per minute.
	defaultBdlRequestDelay = 600 * time.Millisecond
)

// NBAStatsConfig controls the primary stats.nba.com adapter.
type NBAStatsConfig struct {
	BaseURL      string
	Timeout      Duration
	RequestDelay Duration
}

// BalldontlieConfig controls how we talk to the balldontlie API.
type BalldontlieConfig struct {
	BaseURL      string
	APIKey       string
	RequestDelay Duration
}

func loadNBAStats() NBAStatsConfig {
	return NBAStatsConfig{
		BaseURL:      envOrDefault(envNBABaseURL, defaultNBABaseURL),
		Timeout:      durationEnvOrDefault(envNBATimeout, defaultNBATimeout),
		RequestDelay: durationEnvOrDefault(envNBARequestDelay, defaultNBARequestDelay),
	}
}

func loadBalldontlie() BalldontlieConfig {
	return BalldontlieConfig{
		BaseURL:      envOrDefault(envBdlBaseURL, defaultBdlBaseURL),
		APIKey:       envOrDefault(envBdlAPIKey, ""),
		RequestDelay: durationEnvOrDefault(envBdlRequestDelay, defaultBdlRequestDelay),
	}
}
