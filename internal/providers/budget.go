package providers

import "time"

const (
	DefaultFetchBase = time.Minute
	// A full stats.nba.com slate is about 31 paced requests: one scoreboard
	// plus play-by-play and box score per game.
	DefaultFetchPerDay = 25 * time.Second
)

// FetchBudget is the deadline for fetching a days-long window. Non-positive
// base or perDay fall back to the defaults.
func FetchBudget(base, perDay time.Duration, days int) time.Duration {
	if base <= 0 {
		base = DefaultFetchBase
	}
	if perDay <= 0 {
		perDay = DefaultFetchPerDay
	}
	if days < 1 {
		days = 1
	}
	return base + time.Duration(days)*perDay
}
