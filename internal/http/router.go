package http

import (
	"encoding/json"
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/nba-game-recommender/internal/http/handlers"
	"github.com/preston-bernstein/nba-game-recommender/internal/http/middleware"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
)

// RouterConfig carries everything the router mounts. Admin may be nil.
type RouterConfig struct {
	Handler     *handlers.Handler
	Admin       *handlers.AdminHandler
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
	CORSOrigins []string
}

// NewRouter registers every HTTP route on a chi router.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	h := cfg.Handler
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Sync-Token"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(jsonStatus(nethttp.StatusNotFound, "not found"))
	r.MethodNotAllowed(jsonStatus(nethttp.StatusMethodNotAllowed, "method not allowed"))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Post("/recommend", h.Recommend)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/best-game", h.BestGame)
		r.Get("/games", h.Games)
		r.Get("/teams", h.Teams)
		r.Get("/teams/{abbr}", h.Team)
		r.Get("/config", h.Config)
		r.Get("/trmnl", h.TRMNL)
		if cfg.Admin != nil {
			r.Post("/sync", cfg.Admin.Sync)
		}
	})

	if cfg.Admin != nil {
		r.Post("/admin/reference/refresh", cfg.Admin.RefreshReference)
	}
	return r
}

func jsonStatus(status int, message string) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
	}
}
