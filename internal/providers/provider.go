package providers

import (
	"context"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

// GameProvider fetches completed games from one upstream source and owns the
// reference data used to judge them.
//
// FetchCompletedGames returns every final game whose league-local date falls in
// [start, end]. Per-game detail failures are absorbed inside the provider; an
// error means the window as a whole could not be checked.
type GameProvider interface {
	FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error)
	IsTop5Team(ctx context.Context, abbr string) bool
	RefreshReferenceData()
}

// Named is implemented by providers that report a stable name for logs and metrics.
type Named interface {
	Name() string
}

// NameOf returns the provider's name, or fallback when it does not report one.
func NameOf(p GameProvider, fallback string) string {
	if n, ok := p.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fallback
}
