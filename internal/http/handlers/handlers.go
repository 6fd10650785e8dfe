package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appteams "github.com/preston-bernstein/nba-game-recommender/internal/app/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/http/requestutil"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/poller"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
)

const maxBodyBytes = 1 << 16

type nowFunc func() time.Time

// Recommender is the delivery-facing recommendation surface.
type Recommender interface {
	BestGame(ctx context.Context, days int, favoriteTeam string) recommend.BestGameResult
	RankedGames(ctx context.Context, days int, favoriteTeam string) recommend.RankedResult
	Weights() scoring.Weights
}

// Handler wires HTTP routes to the recommendation service.
type Handler struct {
	svc         Recommender
	teams       *appteams.Service
	buzzEnabled bool
	logger      *slog.Logger
	now         nowFunc
	statusFn    func() poller.Status
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	Teams       *appteams.Service
	BuzzEnabled bool
	Status      func() poller.Status
}

// NewHandler constructs a Handler with defaults.
func NewHandler(svc Recommender, logger *slog.Logger, opts Options) *Handler {
	teams := opts.Teams
	if teams == nil {
		teams = appteams.NewService(nil)
	}
	return &Handler{
		svc:         svc,
		teams:       teams,
		buzzEnabled: opts.BuzzEnabled,
		logger:      logger,
		now:         time.Now,
		statusFn:    opts.Status,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "", "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the cache warmer has recently succeeded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, "", msg, h.logger)
}

// BestGame serves GET /api/best-game?days=&team=.
func (h *Handler) BestGame(w http.ResponseWriter, r *http.Request) {
	days, ok := requestutil.IntQuery(r, "days", recommend.DefaultDays)
	if !ok {
		writeError(w, r, http.StatusBadRequest, recommend.CodeValidation, "days must be an integer", h.logger)
		return
	}
	team := requestutil.TeamQuery(r)
	res := h.svc.BestGame(r.Context(), days, team)
	h.logResult(r, "best game served", res.Result, slog.Int(logging.FieldDays, days), slog.String(logging.FieldTeam, team))
	writeJSON(w, statusFor(res.Result), res, h.logger)
}

// Games serves GET /api/games?days=&team=.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	days, ok := requestutil.IntQuery(r, "days", recommend.DefaultDays)
	if !ok {
		writeError(w, r, http.StatusBadRequest, recommend.CodeValidation, "days must be an integer", h.logger)
		return
	}
	team := requestutil.TeamQuery(r)
	res := h.svc.RankedGames(r.Context(), days, team)
	h.logResult(r, "ranked games served", res.Result,
		slog.Int(logging.FieldDays, days),
		slog.String(logging.FieldTeam, team),
		slog.Int(logging.FieldCount, res.Count),
	)
	writeJSON(w, statusFor(res.Result), res, h.logger)
}

type recommendRequest struct {
	Days         *int   `json:"days"`
	FavoriteTeam string `json:"favorite_team"`
	ShowAll      bool   `json:"show_all"`
}

type recommendResponse struct {
	Success bool                   `json:"success"`
	ShowAll bool                   `json:"show_all"`
	Count   *int                   `json:"count,omitempty"`
	Games   []recommend.RankedGame `json:"games,omitempty"`
	Game    *recommend.RankedGame  `json:"game,omitempty"`
}

// Recommend serves POST /recommend for the web client.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, recommend.CodeValidation, "invalid JSON body", h.logger)
		return
	}
	days := recommend.DefaultDays
	if req.Days != nil {
		days = *req.Days
	}

	if req.ShowAll {
		res := h.svc.RankedGames(r.Context(), days, req.FavoriteTeam)
		h.logResult(r, "recommendation served", res.Result, slog.Int(logging.FieldDays, days), slog.Bool("show_all", true))
		if !res.Success {
			writeJSON(w, statusFor(res.Result), res, h.logger)
			return
		}
		count := res.Count
		writeJSON(w, http.StatusOK, recommendResponse{Success: true, ShowAll: true, Count: &count, Games: res.Data}, h.logger)
		return
	}

	res := h.svc.BestGame(r.Context(), days, req.FavoriteTeam)
	h.logResult(r, "recommendation served", res.Result, slog.Int(logging.FieldDays, days), slog.Bool("show_all", false))
	if !res.Success {
		writeJSON(w, statusFor(res.Result), res, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{Success: true, Game: res.Data}, h.logger)
}

// Teams serves GET /api/teams.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	all := h.teams.Teams(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(all), "data": all}, h.logger)
}

// Team serves GET /api/teams/{abbr}.
func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	abbr := chi.URLParam(r, "abbr")
	team, ok := h.teams.TeamByAbbreviation(r.Context(), abbr)
	if !ok {
		writeError(w, r, http.StatusNotFound, recommend.CodeValidation, "unknown team", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": team}, h.logger)
}

type configView struct {
	Weights     scoring.Weights `json:"weights"`
	MinDays     int             `json:"min_days"`
	MaxDays     int             `json:"max_days"`
	DefaultDays int             `json:"default_days"`
	BuzzEnabled bool            `json:"buzz_enabled"`
}

// Config serves GET /api/config with the active scoring setup.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": configView{
			Weights:     h.svc.Weights(),
			MinDays:     recommend.MinDays,
			MaxDays:     recommend.MaxDays,
			DefaultDays: recommend.DefaultDays,
			BuzzEnabled: h.buzzEnabled,
		},
	}, h.logger)
}

func (h *Handler) logResult(r *http.Request, msg string, res recommend.Result, attrs ...any) {
	logger := loggerFromContext(r, h.logger)
	if res.Success {
		logging.Info(logger, msg, attrs...)
		return
	}
	logging.Warn(logger, msg, append(attrs, slog.String(logging.FieldErrorCode, string(res.ErrorCode)))...)
}
