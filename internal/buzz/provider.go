package buzz

import (
	"context"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

// Provider scores a batch of games for online attention.
// ScoreBatch never fails: on any problem every game maps to a zero Result.
type Provider interface {
	Available() bool
	ScoreBatch(ctx context.Context, batch []games.GameRecord) map[string]Result
}

// Noop is the provider used when buzz scoring is disabled.
type Noop struct{}

func (Noop) Available() bool { return false }

func (Noop) ScoreBatch(_ context.Context, batch []games.GameRecord) map[string]Result {
	return zeros(batch)
}

func zeros(batch []games.GameRecord) map[string]Result {
	out := make(map[string]Result, len(batch))
	for _, g := range batch {
		out[g.ID] = Result{}
	}
	return out
}
