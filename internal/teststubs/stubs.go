package teststubs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/buzz"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

// StubProvider is a test double for providers.GameProvider.
type StubProvider struct {
	Games     []games.GameRecord
	Err       error
	Top5      map[string]bool
	Calls     atomic.Int32
	Refreshes atomic.Int32
	Notify    chan struct{}

	mu        sync.Mutex
	lastStart time.Time
	lastEnd   time.Time
}

// FetchCompletedGames returns configured games and error while tracking calls.
func (s *StubProvider) FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.mu.Lock()
	s.lastStart, s.lastEnd = start, end
	s.mu.Unlock()
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]games.GameRecord, len(s.Games))
	copy(out, s.Games)
	return out, nil
}

// LastWindow returns the range passed to the most recent fetch.
func (s *StubProvider) LastWindow() (time.Time, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStart, s.lastEnd
}

func (s *StubProvider) IsTop5Team(ctx context.Context, abbr string) bool {
	return s.Top5[abbr]
}

func (s *StubProvider) RefreshReferenceData() {
	s.Refreshes.Add(1)
}

// StubBuzz is a test double for buzz.Provider.
type StubBuzz struct {
	Scores      map[string]buzz.Result
	Unavailable bool
	Calls       atomic.Int32
	LastBatch   atomic.Int32
}

func (s *StubBuzz) Available() bool { return !s.Unavailable }

// ScoreBatch returns the configured scores, zero for anything unlisted.
func (s *StubBuzz) ScoreBatch(ctx context.Context, batch []games.GameRecord) map[string]buzz.Result {
	s.Calls.Add(1)
	s.LastBatch.Store(int32(len(batch)))
	out := make(map[string]buzz.Result, len(batch))
	for _, g := range batch {
		out[g.ID] = s.Scores[g.ID]
	}
	return out
}
