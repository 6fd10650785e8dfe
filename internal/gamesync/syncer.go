// Package gamesync copies recently completed games from upstream into the game store.
package gamesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/store"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

const (
	defaultDays    = 7
	defaultTimeout = 5 * time.Minute
)

// ErrInProgress is returned when a sync is requested while one is running.
var ErrInProgress = errors.New("sync already in progress")

// Invalidator drops answers derived from stale data.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Config wires a Syncer.
type Config struct {
	Provider providers.GameProvider
	Store    store.GameStore
	Cache    Invalidator
	Days     int
	Timeout  time.Duration
	Location *time.Location
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

// Result summarizes one sync run.
type Result struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Fetched   int    `json:"fetched"`
	Stored    int    `json:"stored"`
}

// Syncer fetches the last Days days and upserts them. One run at a time.
type Syncer struct {
	provider providers.GameProvider
	store    store.GameStore
	cache    Invalidator
	days     int
	timeout  time.Duration
	loc      *time.Location
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	running sync.Mutex
	cronMu  sync.Mutex
	cron    *cron.Cron
}

func New(cfg Config) *Syncer {
	s := &Syncer{
		provider: cfg.Provider,
		store:    cfg.Store,
		cache:    cfg.Cache,
		days:     cfg.Days,
		timeout:  cfg.Timeout,
		loc:      cfg.Location,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		now:      time.Now,
	}
	if s.days <= 0 {
		s.days = defaultDays
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.loc == nil {
		s.loc = providers.LeagueLocation("")
	}
	return s
}

// SyncNow runs one sync. Concurrent callers get ErrInProgress.
func (s *Syncer) SyncNow(ctx context.Context) (Result, error) {
	if !s.running.TryLock() {
		return Result{}, ErrInProgress
	}
	defer s.running.Unlock()

	began := time.Now()
	res, err := s.run(ctx)
	s.metrics.RecordSync(time.Since(began), res.Stored, err)

	logger := logging.FromContext(ctx, s.logger)
	if err != nil {
		logging.Error(logger, "game sync failed", err, slog.Int(logging.FieldDays, s.days))
		return res, err
	}
	logging.Info(logger, "game sync complete",
		slog.String("start_date", res.StartDate),
		slog.String("end_date", res.EndDate),
		slog.Int("fetched", res.Fetched),
		slog.Int("stored", res.Stored),
		slog.Int64(logging.FieldDurationMS, time.Since(began).Milliseconds()),
	)
	return res, nil
}

func (s *Syncer) run(ctx context.Context) (Result, error) {
	if s.provider == nil || s.store == nil {
		return Result{}, providers.ErrProviderUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start, end := timeutil.Window(s.now(), s.days, s.loc)
	res := Result{StartDate: timeutil.FormatDate(start), EndDate: timeutil.FormatDate(end)}

	records, err := s.provider.FetchCompletedGames(ctx, start, end)
	if err != nil {
		return res, fmt.Errorf("fetch games: %w", err)
	}
	res.Fetched = len(records)

	valid := records[:0:0]
	for _, g := range records {
		if g.Validate() == nil {
			valid = append(valid, g)
		}
	}
	stored, err := s.store.UpsertGames(ctx, valid)
	res.Stored = stored
	if err != nil {
		return res, fmt.Errorf("store games: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logging.Warn(logging.FromContext(ctx, s.logger), "cache invalidation after sync failed", slog.Any("error", err))
		}
	}
	return res, nil
}

// Start schedules SyncNow on the cron spec (standard five fields or a
// descriptor such as "@every 1h") and stops the schedule when ctx ends.
func (s *Syncer) Start(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.SyncNow(ctx); errors.Is(err, ErrInProgress) {
			logging.Warn(s.logger, "skipping scheduled sync, previous run still going")
		}
	}); err != nil {
		return fmt.Errorf("schedule sync %q: %w", spec, err)
	}

	s.cronMu.Lock()
	s.cron = c
	s.cronMu.Unlock()

	c.Start()
	logging.Info(s.logger, "game sync scheduled", slog.String("schedule", spec), slog.Int(logging.FieldDays, s.days))
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Syncer) Stop() {
	s.cronMu.Lock()
	c := s.cron
	s.cron = nil
	s.cronMu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
