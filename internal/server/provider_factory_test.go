package server

import (
	"testing"

	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/fixture"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/nbastats"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers/stored"
	"github.com/preston-bernstein/nba-game-recommender/internal/store"
	"github.com/preston-bernstein/nba-game-recommender/internal/testutil"
)

func TestSelectProvider(t *testing.T) {
	cfg := config.Config{Balldontlie: config.BalldontlieConfig{BaseURL: "http://example.com", APIKey: "key"}}

	if _, ok := selectProvider("nbastats", cfg, nil, nil).(*nbastats.Client); !ok {
		t.Fatal("expected nbastats client")
	}
	if _, ok := selectProvider("BallDontLie", cfg, nil, nil).(*balldontlie.Client); !ok {
		t.Fatal("expected balldontlie client")
	}
	if _, ok := selectProvider("fixture", cfg, nil, nil).(*fixture.Provider); !ok {
		t.Fatal("expected fixture provider")
	}
}

func TestSelectProviderFallsBackToFixtureOnUnknownName(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	if _, ok := selectProvider("espn", config.Config{}, logger, nil).(*fixture.Provider); !ok {
		t.Fatal("expected fixture provider for unknown name")
	}
	if buf.Len() == 0 {
		t.Fatal("expected warning for unknown provider")
	}
}

func TestUpstreamKeepsPrimaryName(t *testing.T) {
	f := newProviderFactory(nil, nil)
	cases := []config.Config{
		{Provider: "fixture"},
		{Provider: "fixture", BackupProvider: "balldontlie"},
		{Provider: "fixture", BackupProvider: "FIXTURE"},
	}
	for _, cfg := range cases {
		if got := providers.NameOf(f.upstream(cfg), ""); got != "fixture" {
			t.Fatalf("%+v: expected primary name fixture, got %q", cfg, got)
		}
	}
}

func TestServingReadsFromStoreWhenConfigured(t *testing.T) {
	f := newProviderFactory(nil, nil)
	upstream := f.upstream(config.Config{Provider: "fixture"})

	if got := f.serving(config.Config{}, upstream, nil); got != upstream {
		t.Fatal("expected upstream to serve without a store")
	}
	if _, ok := f.serving(config.Config{}, upstream, store.NewMemoryStore()).(*stored.Provider); !ok {
		t.Fatal("expected stored provider with a store")
	}
}
