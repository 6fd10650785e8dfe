package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/gamesync"
	"github.com/preston-bernstein/nba-game-recommender/internal/http/requestutil"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
)

// Syncer runs one store sync on demand.
type Syncer interface {
	SyncNow(ctx context.Context) (gamesync.Result, error)
}

// ReferenceRefresher drops cached top-5 and star data.
type ReferenceRefresher interface {
	RefreshReferenceData()
}

// Invalidator drops cached recommendation answers.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// AdminConfig wires an AdminHandler. Empty tokens disable the matching endpoint.
type AdminConfig struct {
	Syncer     Syncer
	Reference  ReferenceRefresher
	Cache      Invalidator
	SyncToken  string
	AdminToken string
}

// AdminHandler exposes the token-guarded maintenance endpoints.
type AdminHandler struct {
	cfg    AdminConfig
	logger *slog.Logger
	now    nowFunc
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(cfg AdminConfig, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{cfg: cfg, logger: logger, now: time.Now}
}

// Sync serves POST /api/sync, guarded by the X-Sync-Token header.
func (h *AdminHandler) Sync(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.cfg.SyncToken == "" || h.cfg.Syncer == nil {
		logging.Warn(logger, "sync endpoint not configured")
		writeError(w, r, http.StatusServiceUnavailable, "", "sync endpoint not configured", h.logger)
		return
	}
	if !tokenMatches(r.Header.Get("X-Sync-Token"), h.cfg.SyncToken) {
		h.unauthorized(w, r)
		return
	}

	res, err := h.cfg.Syncer.SyncNow(r.Context())
	switch {
	case errors.Is(err, gamesync.ErrInProgress):
		writeError(w, r, http.StatusConflict, "", err.Error(), h.logger)
		return
	case err != nil:
		logging.Error(logger, "sync request failed", err)
		writeError(w, r, http.StatusInternalServerError, "", err.Error(), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "sync completed",
		"results":   res,
		"synced_at": h.now().Format(time.RFC3339),
	}, h.logger)
}

// RefreshReference serves POST /admin/reference/refresh, guarded by a bearer token.
// It reloads top-5 and star data on next use and drops cached answers.
func (h *AdminHandler) RefreshReference(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.cfg.AdminToken == "" || h.cfg.Reference == nil {
		writeError(w, r, http.StatusServiceUnavailable, "", "admin endpoint not configured", h.logger)
		return
	}
	bearer, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !tokenMatches(bearer, h.cfg.AdminToken) {
		h.unauthorized(w, r)
		return
	}

	h.cfg.Reference.RefreshReferenceData()
	if h.cfg.Cache != nil {
		if err := h.cfg.Cache.Invalidate(r.Context()); err != nil {
			logging.Warn(logger, "cache invalidation failed", slog.Any("error", err))
		}
	}
	logging.Info(logger, "reference data refresh requested")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "refreshing"}, h.logger)
}

func (h *AdminHandler) unauthorized(w http.ResponseWriter, r *http.Request) {
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, "", "unauthorized", h.logger)
}

func tokenMatches(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
