package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-game-recommender/internal/http/middleware"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

type errorBody struct {
	Success   bool           `json:"success"`
	ErrorCode recommend.Code `json:"error_code,omitempty"`
	Error     string         `json:"error"`
	RequestID string         `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code recommend.Code, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	writeJSON(w, status, errorBody{ErrorCode: code, Error: message, RequestID: reqID}, logger)
}

// statusFor maps an engine result to its HTTP status.
func statusFor(res recommend.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.ErrorCode {
	case recommend.CodeValidation:
		return http.StatusBadRequest
	case recommend.CodeNoGames:
		return http.StatusNotFound
	case recommend.CodeUpstreamTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
