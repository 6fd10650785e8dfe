package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-game-recommender/internal/app/recommendations"
	appteams "github.com/preston-bernstein/nba-game-recommender/internal/app/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/gamesync"
	httpserver "github.com/preston-bernstein/nba-game-recommender/internal/http"
	"github.com/preston-bernstein/nba-game-recommender/internal/http/handlers"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/poller"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
)

var metricsSetup = metrics.Setup

// Poller is the cache warmer surface the server drives.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

type Server struct {
	cfg             config.Config
	logger          *slog.Logger
	metrics         *metrics.Recorder
	recommendations *recommendations.Service
	syncer          *gamesync.Syncer
	httpServer      httpServer
	metricsServer   httpServer
	poller          Poller
	closers         []io.Closer
	metricsStop     func(context.Context) error
}

// New constructs a server with the configured provider chain, store and caches.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithProvider(cfg, logger, nil, nil)
}

// newServerWithProvider builds the full graph. A nil upstream is built from
// cfg; a nil recorder comes from metrics setup.
func newServerWithProvider(cfg config.Config, logger *slog.Logger, upstream providers.GameProvider, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	abort := func(err error) (*Server, error) {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}

	scorer, err := buildScorer(cfg, logger)
	if err != nil {
		return abort(err)
	}
	gameStore, err := openStore(cfg, logger)
	if err != nil {
		return abort(err)
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
	if gameStore != nil {
		s.closers = append(s.closers, gameStore)
	}

	factory := newProviderFactory(logger, recorder)
	if upstream == nil {
		upstream = factory.upstream(cfg)
	}
	serving := factory.serving(cfg, upstream, gameStore)
	loc := providers.LeagueLocation(cfg.Timezone)

	buzzProvider := buildBuzz(cfg, logger, recorder)
	engine := recommend.NewEngine(recommend.Config{
		Provider:     serving,
		Buzz:         buzzProvider,
		Scorer:       scorer,
		Location:     loc,
		FetchTimeout: cfg.FetchTimeout,
		FetchPerDay:  cfg.FetchPerDay,
		Logger:       logger,
	})

	respCache, cacheCloser := buildCache(cfg, logger)
	if cacheCloser != nil {
		s.closers = append(s.closers, cacheCloser)
	}
	s.recommendations = recommendations.NewService(recommendations.Config{
		Engine:  engine,
		Cache:   respCache,
		TTL:     cfg.Cache.TTL,
		Logger:  logger,
		Metrics: recorder,
	})

	adminCfg := handlers.AdminConfig{
		Reference:  serving,
		Cache:      s.recommendations,
		SyncToken:  cfg.Store.SyncToken,
		AdminToken: cfg.AdminToken,
	}
	if gameStore != nil {
		s.syncer = gamesync.New(gamesync.Config{
			Provider: upstream,
			Store:    gameStore,
			Cache:    s.recommendations,
			Days:     cfg.Store.SyncDays,
			Timeout:  providers.FetchBudget(cfg.FetchTimeout, cfg.FetchPerDay, cfg.Store.SyncDays),
			Location: loc,
			Logger:   logger,
			Metrics:  recorder,
		})
		adminCfg.Syncer = s.syncer
	}

	warmer := poller.New(s.recommendations, logger, recorder, cfg.WarmInterval)
	s.poller = warmer

	handler := handlers.NewHandler(s.recommendations, logger, handlers.Options{
		Teams:       appteams.NewService(serving),
		BuzzEnabled: buzzProvider.Available(),
		Status:      warmer.Status,
	})
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:     handler,
		Admin:       handlers.NewAdminHandler(adminCfg, logger),
		Logger:      logger,
		Metrics:     recorder,
		CORSOrigins: cfg.CORSOrigins,
	})
	s.httpServer = newNetHTTPServer(cfg.Port, router, writeTimeout(cfg))

	logging.Info(logger, "server assembled",
		slog.String(logging.FieldProvider, providers.NameOf(upstream, cfg.Provider)),
		slog.Bool("store", gameStore != nil),
		slog.Bool("buzz", buzzProvider.Available()),
	)
	return s, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

// Run starts the warmer, sync schedule and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)
	s.startSync(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) startSync(ctx context.Context) {
	if s.syncer == nil || s.cfg.Store.SyncSchedule == "" {
		return
	}
	if err := s.syncer.Start(ctx, s.cfg.Store.SyncSchedule); err != nil {
		logging.Error(s.logger, "sync schedule rejected, only on-demand sync available", err)
	}
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", slog.Any("error", err))
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", slog.Any("error", err))
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if s.syncer != nil {
		s.syncer.Stop()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			logging.Warn(s.logger, "close failed", slog.Any("error", err))
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any("error", err))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newNetHTTPServer(recCfg.Port, handler, metricsWriteTimeout)
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", slog.Any("error", err))
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
