package reference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubSource struct {
	top      []string
	stars    []string
	topErr   error
	starErr  error
	delay    time.Duration
	topCalls atomic.Int32
	starCall atomic.Int32
}

func (s *stubSource) FetchTopTeams(ctx context.Context) ([]string, error) {
	s.topCalls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.top, s.topErr
}

func (s *stubSource) FetchStarPlayers(ctx context.Context) ([]string, error) {
	s.starCall.Add(1)
	return s.stars, s.starErr
}

func TestCacheLoadsOnceAndServesFromMemory(t *testing.T) {
	src := &stubSource{
		top:   []string{"BOS", "DEN", "MIN", "LAL", "OKC"},
		stars: []string{"LeBron James", "Stephen Curry"},
	}
	c := NewCache(src)
	ctx := context.Background()

	if c.State() != StateEmpty {
		t.Fatalf("expected empty state, got %s", c.State())
	}
	if !c.IsTop5Team(ctx, "bos") || !c.IsTop5Team(ctx, "LAL") {
		t.Fatal("expected BOS and LAL in top 5")
	}
	if c.IsTop5Team(ctx, "SAC") {
		t.Fatal("expected SAC outside top 5")
	}
	if !c.IsStarPlayer(ctx, "lebron  james") || c.IsStarPlayer(ctx, "Regular Player") {
		t.Fatal("unexpected star membership")
	}
	if c.State() != StatePopulated || c.UsingFallback() {
		t.Fatalf("expected populated without fallback, got %s", c.State())
	}
	if src.topCalls.Load() != 1 || src.starCall.Load() != 1 {
		t.Fatalf("expected one fetch per set, got %d/%d", src.topCalls.Load(), src.starCall.Load())
	}
}

func TestCacheConcurrentFirstAccessSharesLoad(t *testing.T) {
	src := &stubSource{top: []string{"BOS"}, stars: []string{"A"}, delay: 20 * time.Millisecond}
	c := NewCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.IsTop5Team(context.Background(), "BOS") {
				t.Error("expected BOS in top set")
			}
		}()
	}
	wg.Wait()

	if got := src.topCalls.Load(); got != 1 {
		t.Fatalf("expected a single shared load, got %d", got)
	}
}

func TestCacheFallsBackOnError(t *testing.T) {
	src := &stubSource{topErr: errors.New("standings down"), starErr: errors.New("leaders down")}
	c := NewCache(src)
	ctx := context.Background()

	if got := len(c.TopTeams(ctx)); got != 5 {
		t.Fatalf("expected 5 fallback teams, got %d", got)
	}
	if !c.IsStarPlayer(ctx, "Nikola Jokic") {
		t.Fatal("expected fallback star set")
	}
	if !c.UsingFallback() {
		t.Fatal("expected fallback flag")
	}
}

func TestCacheNilSourceUsesFallback(t *testing.T) {
	c := NewCache(nil)
	if !c.IsTop5Team(context.Background(), FallbackTopTeams[0]) {
		t.Fatal("expected fallback team")
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	src := &stubSource{top: []string{"BOS"}, stars: []string{"A"}}
	c := NewCache(src)
	ctx := context.Background()

	c.IsTop5Team(ctx, "BOS")
	c.Invalidate()
	if c.State() != StateEmpty {
		t.Fatalf("expected empty after invalidate, got %s", c.State())
	}
	src.top = []string{"DEN"}
	if !c.IsTop5Team(ctx, "DEN") || c.IsTop5Team(ctx, "BOS") {
		t.Fatal("expected reloaded set")
	}
	if src.topCalls.Load() != 2 {
		t.Fatalf("expected two loads, got %d", src.topCalls.Load())
	}
}

func TestTTLExpiresSets(t *testing.T) {
	src := &stubSource{top: []string{"BOS"}, stars: []string{"A"}}
	c := NewCache(src, WithTTL(time.Hour))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.IsTop5Team(ctx, "BOS")
	now = now.Add(30 * time.Minute)
	c.IsTop5Team(ctx, "BOS")
	if src.topCalls.Load() != 1 {
		t.Fatalf("expected cached set within ttl, got %d loads", src.topCalls.Load())
	}
	now = now.Add(time.Hour)
	c.IsTop5Team(ctx, "BOS")
	if src.topCalls.Load() != 2 {
		t.Fatalf("expected reload after ttl, got %d loads", src.topCalls.Load())
	}
}

func TestStarCountIgnoresDuplicates(t *testing.T) {
	src := &stubSource{top: []string{"BOS"}, stars: []string{"LeBron James", "Anthony Davis"}}
	c := NewCache(src)
	got := c.StarCount(context.Background(), []string{"LeBron James", "lebron james", "Anthony Davis", "Role Player"})
	if got != 2 {
		t.Fatalf("expected 2 stars, got %d", got)
	}
}

type panickingSource struct{ stubSource }

func (s *panickingSource) FetchTopTeams(ctx context.Context) ([]string, error) {
	s.topCalls.Add(1)
	panic("standings decoder blew up")
}

func TestCacheSourcePanicPublishesFallback(t *testing.T) {
	src := &panickingSource{stubSource: stubSource{stars: []string{"Jayson Tatum"}}}
	c := NewCache(src)

	if !c.IsTop5Team(context.Background(), FallbackTopTeams[0]) {
		t.Fatal("expected fallback top teams after panic")
	}
	if c.State() != StatePopulated || !c.UsingFallback() {
		t.Fatalf("expected populated fallback state, got %s fallback=%v", c.State(), c.UsingFallback())
	}
	if !c.IsStarPlayer(context.Background(), "Jayson Tatum") {
		t.Fatal("expected star set loaded despite top teams panic")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		c.IsTop5Team(ctx, "BOS")
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("later caller blocked on a load that panicked")
	}
	if ctx.Err() != nil {
		t.Fatal("expected later caller served before its deadline")
	}
}
