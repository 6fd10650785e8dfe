package buzz

// MaxScore is the ceiling of the buzz signal.
const MaxScore = 40.0

// Result is the buzz signal for one game.
type Result struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Clamp bounds a raw score to [0, MaxScore].
func Clamp(score float64) float64 {
	switch {
	case score != score: // NaN
		return 0
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
