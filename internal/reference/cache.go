// Package reference owns the top-5 team and star player sets used for scoring.
package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
)

// Source fetches reference data from an upstream provider.
type Source interface {
	FetchTopTeams(ctx context.Context) ([]string, error)
	FetchStarPlayers(ctx context.Context) ([]string, error)
}

// State is the lifecycle stage of a Cache.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return "empty"
	}
}

const defaultLoadTimeout = 20 * time.Second

// FallbackTopTeams is substituted when standings cannot be fetched.
var FallbackTopTeams = []string{"BOS", "DEN", "OKC", "MIL", "CLE"}

// FallbackStarPlayers is substituted when league leaders cannot be fetched.
var FallbackStarPlayers = []string{
	"LeBron James", "Stephen Curry", "Kevin Durant", "Giannis Antetokounmpo",
	"Nikola Jokic", "Luka Doncic", "Joel Embiid", "Jayson Tatum",
	"Shai Gilgeous-Alexander", "Anthony Edwards", "Anthony Davis", "Devin Booker",
	"Donovan Mitchell", "Jalen Brunson", "Tyrese Haliburton", "Victor Wembanyama",
}

// Cache lazily loads both reference sets once and serves them read-mostly.
// Concurrent first accesses share a single load.
type Cache struct {
	source      Source
	ttl         time.Duration
	loadTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.RWMutex
	state    State
	top      map[string]struct{}
	stars    map[string]struct{}
	loadedAt time.Time
	fallback bool
	inflight chan struct{}
	gen      uint64
}

// Option customizes a Cache.
type Option func(*Cache)

// WithTTL expires the populated sets after ttl. Zero keeps them for the process lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger sets the logger used for load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithLoadTimeout bounds each load.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// NewCache builds an empty Cache. A nil source always yields the fallback sets.
func NewCache(source Source, opts ...Option) *Cache {
	c := &Cache{
		source:      source,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTop5Team reports whether abbr is in the current top-5 standings.
func (c *Cache) IsTop5Team(ctx context.Context, abbr string) bool {
	c.ensure(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.top[teams.Normalize(abbr)]
	return ok
}

// IsStarPlayer reports whether name is in the current scoring leaders, ignoring case.
func (c *Cache) IsStarPlayer(ctx context.Context, name string) bool {
	c.ensure(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.stars[normalizeName(name)]
	return ok
}

// TopTeams returns a copy of the top-5 set.
func (c *Cache) TopTeams(ctx context.Context) []string {
	c.ensure(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return keys(c.top)
}

// StarCount counts how many of the given players are stars.
func (c *Cache) StarCount(ctx context.Context, players []string) int {
	c.ensure(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		n := normalizeName(p)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := c.stars[n]; ok {
			count++
		}
	}
	return count
}

// State returns the current lifecycle stage.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// UsingFallback reports whether either set currently holds fallback data.
func (c *Cache) UsingFallback() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fallback
}

// Invalidate drops both sets so the next access reloads them.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.state == StateLoading {
		// The running load still publishes, but stale.
		return
	}
	c.state = StateEmpty
	c.top = nil
	c.stars = nil
	c.loadedAt = time.Time{}
	c.fallback = false
}

func (c *Cache) ensure(ctx context.Context) {
	for {
		c.mu.Lock()
		switch {
		case c.state == StatePopulated && !c.expiredLocked():
			c.mu.Unlock()
			return
		case c.state == StateLoading:
			wait := c.inflight
			c.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctxDone(ctx):
				return
			}
		default:
			c.state = StateLoading
			done := make(chan struct{})
			c.inflight = done
			gen := c.gen
			c.mu.Unlock()

			defer c.finishLoad(done)
			c.load(ctx, gen)
			return
		}
	}
}

// finishLoad releases waiters. A load that never published resets the cache
// to empty so the next access retries instead of waiting forever.
func (c *Cache) finishLoad(done chan struct{}) {
	c.mu.Lock()
	if c.inflight == done {
		c.state = StateEmpty
		c.inflight = nil
	}
	c.mu.Unlock()
	close(done)
}

func (c *Cache) expiredLocked() bool {
	if c.loadedAt.IsZero() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(c.loadedAt) >= c.ttl
}

// load fetches both sets and swaps them in whole. It never leaves the cache empty.
func (c *Cache) load(parent context.Context, gen uint64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(orBackground(parent)), c.loadTimeout)
	defer cancel()

	logger := logging.FromContext(parent, c.logger)
	fallback := false

	top, err := c.fetch(ctx, func(ctx context.Context) ([]string, error) { return c.source.FetchTopTeams(ctx) })
	if err != nil || len(top) == 0 {
		logging.Warn(logger, "reference top teams unavailable, using fallback", "error", errString(err))
		top = FallbackTopTeams
		fallback = true
	}
	stars, err := c.fetch(ctx, func(ctx context.Context) ([]string, error) { return c.source.FetchStarPlayers(ctx) })
	if err != nil || len(stars) == 0 {
		logging.Warn(logger, "reference star players unavailable, using fallback", "error", errString(err))
		stars = FallbackStarPlayers
		fallback = true
	}

	topSet := make(map[string]struct{}, len(top))
	for _, t := range top {
		topSet[teams.Normalize(t)] = struct{}{}
	}
	starSet := make(map[string]struct{}, len(stars))
	for _, s := range stars {
		starSet[normalizeName(s)] = struct{}{}
	}

	c.mu.Lock()
	c.top = topSet
	c.stars = starSet
	c.fallback = fallback
	c.state = StatePopulated
	c.loadedAt = c.now()
	if c.gen != gen {
		c.loadedAt = time.Time{}
	}
	c.inflight = nil
	c.mu.Unlock()

	logging.Info(logger, "reference data loaded",
		"top_teams", len(topSet),
		"star_players", len(starSet),
		"fallback", fallback,
	)
}

func (c *Cache) fetch(ctx context.Context, fn func(context.Context) ([]string, error)) (out []string, err error) {
	if c.source == nil {
		return nil, errNoSource
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", errSourcePanic, r)
		}
	}()
	return fn(ctx)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func ctxDone(ctx context.Context) <-chan struct{} {
	if ctx == nil {
		return nil
	}
	return ctx.Done()
}

func errString(err error) string {
	if err == nil {
		return "empty result"
	}
	return err.Error()
}
