package config

import "time"

const (
	envPort           = "PORT"
	envTimezone       = "TIMEZONE"
	envFetchTimeout   = "FETCH_TIMEOUT"
	envFetchPerDay    = "FETCH_TIMEOUT_PER_DAY"
	envWarmInterval   = "WARM_INTERVAL"
	envProvider       = "PROVIDER"
	envBackupProvider = "BACKUP_PROVIDER"
	envCORSOrigins    = "CORS_ORIGINS"
	envAdminToken     = "ADMIN_TOKEN"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort     = "8080"
	defaultTimezone = "America/New_York"
	// A fetch of N days gets FETCH_TIMEOUT + N*FETCH_TIMEOUT_PER_DAY. The per-day
	// share covers a full 15-game slate at the default stats.nba.com pacing.
	defaultFetchTimeout = 1 * Duration(time.Minute)
	defaultFetchPerDay  = 25 * Duration(time.Second)
	defaultWarmInterval = 5 * Duration(time.Minute)
	defaultProvider     = "nbastats"
	defaultMetricsPort  = "9090"
)
