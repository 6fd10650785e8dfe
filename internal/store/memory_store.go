package store

import (
	"context"
	"sort"
	"sync"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

// MemoryStore keeps games in a thread-safe map. Used when no DSN is configured
// and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]games.GameRecord
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]games.GameRecord),
	}
}

// UpsertGames stores valid records, replacing any with the same id.
func (s *MemoryStore) UpsertGames(ctx context.Context, records []games.GameRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for _, g := range records {
		if g.Validate() != nil {
			continue
		}
		s.games[g.ID] = g
		written++
	}
	return written, nil
}

// GamesBetween returns a sorted copy of the games in range.
func (s *MemoryStore) GamesBetween(ctx context.Context, startDay, endDay string) ([]games.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]games.GameRecord, 0, len(s.games))
	for _, g := range s.games {
		if g.Date >= startDay && g.Date <= endDay {
			result = append(result, g)
		}
	}
	sortRecords(result)
	return result, nil
}

// Len reports how many games are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func (s *MemoryStore) Close() error { return nil }

func sortRecords(records []games.GameRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].ID < records[j].ID
	})
}
