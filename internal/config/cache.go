package config

import "time"

const (
	envCacheBackend    = "CACHE_BACKEND"
	envRedisURL        = "REDIS_URL"
	envCacheTTL        = "CACHE_TTL"
	envCacheMaxEntries = "CACHE_MAX_ENTRIES"
	envReferenceTTL    = "REFERENCE_TTL"

	defaultCacheBackend    = "memory"
	defaultCacheTTL        = 5 * time.Minute
	defaultCacheMaxEntries = 100
	defaultReferenceTTL    = 12 * time.Hour
)

// CacheConfig controls the recommendation response cache.
type CacheConfig struct {
	Backend    string
	RedisURL   string
	TTL        Duration
	MaxEntries int
}

// ReferenceConfig controls the top-5/star reference data cache.
type ReferenceConfig struct {
	TTL Duration
}

func loadCache() CacheConfig {
	return CacheConfig{
		Backend:    envOrDefault(envCacheBackend, defaultCacheBackend),
		RedisURL:   envOrDefault(envRedisURL, ""),
		TTL:        durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		MaxEntries: intEnvOrDefault(envCacheMaxEntries, defaultCacheMaxEntries),
	}
}

func loadReference() ReferenceConfig {
	return ReferenceConfig{
		TTL: durationEnvOrDefault(envReferenceTTL, defaultReferenceTTL),
	}
}
