package config

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	Timezone       string
	FetchTimeout   Duration
	FetchPerDay    Duration
	WarmInterval   Duration
	Provider       string
	BackupProvider string
	NBAStats       NBAStatsConfig
	Balldontlie    BalldontlieConfig
	Buzz           BuzzConfig
	Reference      ReferenceConfig
	Cache          CacheConfig
	Store          StoreConfig
	Scoring        ScoringConfig
	Metrics        MetricsConfig
	CORSOrigins    []string
	// AdminToken guards the reference refresh endpoint. Empty disables it.
	AdminToken     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:           listenPort(envOrDefault(envPort, defaultPort)),
		Timezone:       envOrDefault(envTimezone, defaultTimezone),
		FetchTimeout:   durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
		FetchPerDay:    durationEnvOrDefault(envFetchPerDay, defaultFetchPerDay),
		WarmInterval:   durationEnvOrDefault(envWarmInterval, defaultWarmInterval),
		Provider:       envOrDefault(envProvider, defaultProvider),
		BackupProvider: envOrDefault(envBackupProvider, ""),
		NBAStats:       loadNBAStats(),
		Balldontlie:    loadBalldontlie(),
		Buzz:           loadBuzz(),
		Reference:      loadReference(),
		Cache:          loadCache(),
		Store:          loadStore(),
		Scoring:        loadScoring(),
		Metrics:        loadMetrics(),
		CORSOrigins:    listEnvOrDefault(envCORSOrigins, []string{"*"}),
		AdminToken:     envOrDefault(envAdminToken, ""),
	}
}
