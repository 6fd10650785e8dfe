package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/stored"
	"github.com/preston-bernstein/nba-game-recommender/internal/store"
)

// providerFactory assembles the provider chain with shared wrappers (retry + fallback).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// upstream builds the live chain: the configured primary, then the optional backup.
func (f providerFactory) upstream(cfg config.Config) providers.GameProvider {
	primary := f.retrying(selectProvider(cfg.Provider, cfg, f.logger, f.metrics), cfg.Provider)

	var backup providers.GameProvider
	name := strings.TrimSpace(cfg.BackupProvider)
	if name != "" && !strings.EqualFold(name, cfg.Provider) {
		backup = f.retrying(selectProvider(name, cfg, f.logger, f.metrics), name)
	}
	return providers.NewFallbackProvider(f.logger, primary, backup)
}

// serving is what the engine reads from. With a store configured that is the
// synced copy, with reference data still answered by the live chain.
func (f providerFactory) serving(cfg config.Config, upstream providers.GameProvider, gameStore store.GameStore) providers.GameProvider {
	if gameStore == nil {
		return upstream
	}
	return stored.New(gameStore, upstream, cfg.Timezone)
}

func (f providerFactory) retrying(p providers.GameProvider, configured string) providers.GameProvider {
	name := providers.NameOf(p, strings.ToLower(strings.TrimSpace(configured)))
	return providers.NewRetryingProvider(p, f.logger, f.metrics, name, 0, 0)
}
