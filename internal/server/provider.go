package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/fixture"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/nbastats"
)

func selectProvider(name string, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) providers.GameProvider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nbastats", "":
		return nbastats.NewClient(nbastats.Config{
			BaseURL:      cfg.NBAStats.BaseURL,
			Timeout:      cfg.NBAStats.Timeout,
			RequestDelay: cfg.NBAStats.RequestDelay,
			Timezone:     cfg.Timezone,
			ReferenceTTL: cfg.Reference.TTL,
			Logger:       logger,
			Metrics:      recorder,
		})
	case "balldontlie":
		return balldontlie.NewClient(balldontlie.Config{
			BaseURL:      cfg.Balldontlie.BaseURL,
			APIKey:       cfg.Balldontlie.APIKey,
			Timezone:     cfg.Timezone,
			RequestDelay: cfg.Balldontlie.RequestDelay,
			ReferenceTTL: cfg.Reference.TTL,
			Logger:       logger,
		})
	case "fixture":
		return fixture.New()
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String(logging.FieldProvider, name))
		return fixture.New()
	}
}
