package teams

import (
	"context"
	"testing"

	"github.com/preston-bernstein/nba-game-recommender/internal/teststubs"
)

func TestTeamsAnnotatesTop5(t *testing.T) {
	svc := NewService(&teststubs.StubProvider{Top5: map[string]bool{"BOS": true, "OKC": true}})

	all := svc.Teams(context.Background())
	if len(all) != 30 {
		t.Fatalf("expected 30 teams, got %d", len(all))
	}
	top := 0
	for _, v := range all {
		if v.Top5 {
			top++
		}
	}
	if top != 2 {
		t.Fatalf("expected 2 top-5 teams, got %d", top)
	}
}

func TestTeamByAbbreviation(t *testing.T) {
	svc := NewService(nil)
	view, ok := svc.TeamByAbbreviation(context.Background(), "gsw")
	if !ok || view.FullName != "Golden State Warriors" || view.Top5 {
		t.Fatalf("unexpected team %+v (ok=%v)", view, ok)
	}
	if _, ok := svc.TeamByAbbreviation(context.Background(), "XYZ"); ok {
		t.Fatal("expected unknown team")
	}
}
