package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/nba-game-recommender/internal/buzz"
	"github.com/preston-bernstein/nba-game-recommender/internal/cache"
	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
	"github.com/preston-bernstein/nba-game-recommender/internal/store"
)

func buildScorer(cfg config.Config, logger *slog.Logger) (*scoring.Engine, error) {
	if cfg.Scoring.Path == "" {
		return scoring.NewEngine(scoring.DefaultWeights()), nil
	}
	weights, err := scoring.LoadWeights(cfg.Scoring.Path)
	if err != nil {
		return nil, err
	}
	logging.Info(logger, "scoring weights loaded", slog.String("path", cfg.Scoring.Path))
	return scoring.NewEngine(weights), nil
}

func buildBuzz(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) buzz.Provider {
	if !cfg.Buzz.Enabled || cfg.Buzz.APIKey == "" {
		logging.Info(logger, "buzz scoring disabled", slog.Bool("enabled", cfg.Buzz.Enabled))
		return buzz.Noop{}
	}
	logging.Info(logger, "buzz scoring enabled",
		slog.String("model", cfg.Buzz.Model),
		slog.String("key_source", cfg.Buzz.KeySource),
	)
	return buzz.NewClient(buzz.Config{
		APIKey:  cfg.Buzz.APIKey,
		BaseURL: cfg.Buzz.BaseURL,
		Model:   cfg.Buzz.Model,
		Timeout: cfg.Buzz.Timeout,
		Logger:  logger,
		Metrics: recorder,
	})
}

// buildCache returns the response cache and, for remote backends, its closer.
// A Redis connection failure degrades to the in-memory cache.
func buildCache(cfg config.Config, logger *slog.Logger) (cache.Cache, io.Closer) {
	switch strings.ToLower(strings.TrimSpace(cfg.Cache.Backend)) {
	case "redis":
		rc, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err == nil {
			logging.Info(logger, "response cache ready", slog.String("backend", "redis"))
			return rc, rc
		}
		logging.Warn(logger, "redis cache unavailable, using memory", slog.Any("error", err))
	case "none", "off":
		logging.Info(logger, "response cache disabled")
		return nil, nil
	}
	return cache.NewMemoryCache(cfg.Cache.MaxEntries), nil
}

func openStore(cfg config.Config, logger *slog.Logger) (store.GameStore, error) {
	if !cfg.Store.Enabled() {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	defer cancel()
	s, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open game store: %w", err)
	}
	logging.Info(logger, "game store opened", slog.String("driver", s.Driver()))
	return s, nil
}
