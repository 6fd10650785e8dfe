package server

import (
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
)

const (
	readTimeout = 10 * time.Second
	idleTimeout = 60 * time.Second
	// Added on top of the longest fetch and the buzz call.
	writeHeadroom = time.Minute

	metricsWriteTimeout = 10 * time.Second

	storeOpenTimeout = 15 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// writeTimeout lets a cold request for the widest window finish its paced
// fetch and buzz call before the response is cut off.
func writeTimeout(cfg config.Config) time.Duration {
	return providers.FetchBudget(cfg.FetchTimeout, cfg.FetchPerDay, recommend.MaxDays) + cfg.Buzz.Timeout + writeHeadroom
}
