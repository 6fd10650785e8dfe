package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

// Display devices only page through two weeks.
const (
	trmnlMinDays = 1
	trmnlMaxDays = 14

	trmnlTimeLayout = "2006-01-02 15:04"
)

type trmnlItem struct {
	Count        *int   `json:"count,omitempty"`
	Margin       *int   `json:"margin,omitempty"`
	Total        *int   `json:"total,omitempty"`
	ThresholdMet *bool  `json:"threshold_met,omitempty"`
	HasFavorite  *bool  `json:"has_favorite,omitempty"`
	Points       string `json:"points"`
}

type trmnlPayload struct {
	Game         *games.GameRecord    `json:"game"`
	Score        string               `json:"score"`
	Breakdown    map[string]trmnlItem `json:"breakdown"`
	Played       string               `json:"played,omitempty"`
	ErrorMessage string               `json:"error_message,omitempty"`
	UpdatedAt    string               `json:"updated_at"`
}

// TRMNL serves GET /api/trmnl, the polling payload for e-ink dashboards.
// Data sits at the root of the document; points are preformatted strings.
func (h *Handler) TRMNL(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	days := trmnlDays(r.URL.Query().Get("days"))
	if days < 0 {
		logging.Warn(logger, "invalid trmnl days, using default", slog.String("days", r.URL.Query().Get("days")))
		days = recommend.DefaultDays
	}
	team := teams.Normalize(r.URL.Query().Get("team"))
	if team != "" && !teams.IsKnown(team) {
		logging.Warn(logger, "unknown trmnl team, ignoring", slog.String(logging.FieldTeam, team))
		team = ""
	}
	now := h.now()

	res := h.svc.BestGame(r.Context(), days, team)
	payload := trmnlPayload{Score: "0", Breakdown: map[string]trmnlItem{}, UpdatedAt: now.Format(trmnlTimeLayout)}

	switch {
	case res.Success && res.Data != nil:
		game := res.Data.Game
		payload.Game = &game
		payload.Score = formatPoints(res.Data.Score)
		payload.Breakdown = formatBreakdown(res.Data.Breakdown)
		if played, err := timeutil.ParseDate(game.Date); err == nil {
			payload.Played = humanize.RelTime(played, now, "ago", "from now")
		}
		logging.Info(logger, "trmnl recommendation served", slog.String(logging.FieldGameID, game.ID))
		writeJSON(w, http.StatusOK, payload, h.logger)
	case res.ErrorCode == recommend.CodeNoGames:
		payload.ErrorMessage = fmt.Sprintf("No NBA games found in the past %d days", days)
		logging.Warn(logger, "trmnl found no games", slog.Int(logging.FieldDays, days))
		writeJSON(w, http.StatusOK, payload, h.logger)
	default:
		status := http.StatusInternalServerError
		if res.ErrorCode == recommend.CodeValidation {
			status = http.StatusBadRequest
		}
		payload.ErrorMessage = "Error: " + res.Error
		logging.Warn(logger, "trmnl recommendation failed", slog.String(logging.FieldErrorCode, string(res.ErrorCode)))
		writeJSON(w, status, payload, h.logger)
	}
}

// trmnlDays returns the requested window, or -1 when it is unusable.
func trmnlDays(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return recommend.DefaultDays
	}
	d, err := strconv.Atoi(raw)
	if err != nil || d < trmnlMinDays || d > trmnlMaxDays {
		return -1
	}
	return d
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatBreakdown(b scoring.Breakdown) map[string]trmnlItem {
	return map[string]trmnlItem{
		"top5_teams":    {Count: &b.Top5Teams.Count, Points: formatPoints(b.Top5Teams.Points)},
		"close_game":    {Margin: &b.CloseGame.Margin, Points: formatPoints(b.CloseGame.Points)},
		"total_points":  {Total: &b.TotalPoints.Total, ThresholdMet: &b.TotalPoints.ThresholdMet, Points: formatPoints(b.TotalPoints.Points)},
		"star_power":    {Count: &b.StarPower.Count, Points: formatPoints(b.StarPower.Points)},
		"favorite_team": {HasFavorite: &b.FavoriteTeam.HasFavorite, Points: formatPoints(b.FavoriteTeam.Points)},
		"lead_changes":  {Count: &b.LeadChanges.Count, Points: formatPoints(b.LeadChanges.Points)},
		"buzz":          {Points: formatPoints(b.Buzz.Points)},
	}
}
