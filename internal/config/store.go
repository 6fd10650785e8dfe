package config

const (
	envStoreDSN     = "STORE_DSN"
	envSyncSchedule = "SYNC_SCHEDULE"
	envSyncDays     = "SYNC_DAYS"
	envSyncToken    = "SYNC_TOKEN"

	defaultSyncDays = 7
)

// StoreConfig controls the optional game store and its sync job.
// An empty DSN disables persistence; reads then go straight upstream.
type StoreConfig struct {
	DSN          string
	SyncSchedule string
	SyncDays     int
	SyncToken    string
}

// Enabled reports whether a store DSN is configured.
func (c StoreConfig) Enabled() bool {
	return c.DSN != ""
}

func loadStore() StoreConfig {
	return StoreConfig{
		DSN:          envOrDefault(envStoreDSN, ""),
		SyncSchedule: envOrDefault(envSyncSchedule, ""),
		SyncDays:     intEnvOrDefault(envSyncDays, defaultSyncDays),
		SyncToken:    envOrDefault(envSyncToken, ""),
	}
}
