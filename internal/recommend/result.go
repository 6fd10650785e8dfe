package recommend

import (
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
)

// RankedGame pairs a game with its score breakdown.
type RankedGame struct {
	Game      games.GameRecord  `json:"game"`
	Score     float64           `json:"score"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

// Result is the envelope shared by the delivery-facing operations.
type Result struct {
	Success   bool   `json:"success"`
	ErrorCode Code   `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BestGameResult carries the single best game on success.
type BestGameResult struct {
	Result
	Data *RankedGame `json:"data,omitempty"`
}

// RankedResult carries every game in rank order on success.
type RankedResult struct {
	Result
	Count int          `json:"count"`
	Data  []RankedGame `json:"data"`
}

func failure(err error) Result {
	return Result{Success: false, ErrorCode: CodeOf(err), Error: MessageOf(err)}
}
