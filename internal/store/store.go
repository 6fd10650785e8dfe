package store

import (
	"context"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

// GameStore persists completed games keyed by game id.
type GameStore interface {
	// UpsertGames inserts or replaces games and returns how many were written.
	UpsertGames(ctx context.Context, records []games.GameRecord) (int, error)
	// GamesBetween returns games dated within [startDay, endDay], both YYYY-MM-DD,
	// ordered by date then id.
	GamesBetween(ctx context.Context, startDay, endDay string) ([]games.GameRecord, error)
	Close() error
}
