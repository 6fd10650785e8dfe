package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
	"github.com/preston-bernstein/nba-game-recommender/internal/testutil"
)

func trmnlHandler(svc Recommender) *Handler {
	h := NewHandler(svc, nil, Options{})
	h.now = testutil.NowAt(time.Date(2024, 1, 16, 15, 0, 0, 0, time.UTC))
	return h
}

func TestTRMNLFormatsRootLevelPayload(t *testing.T) {
	svc := okRecommender()
	svc.best.Data.Score = 87.5
	h := trmnlHandler(svc)

	rr := testutil.Serve(http.HandlerFunc(h.TRMNL), http.MethodGet, "/api/trmnl?days=3&team=bos", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp trmnlPayload
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Game == nil || resp.Game.ID != "g1" {
		t.Fatalf("expected game at root, got %+v", resp)
	}
	if resp.Score != "87.5" {
		t.Fatalf("expected one-decimal score, got %q", resp.Score)
	}
	if resp.UpdatedAt != "2024-01-16 15:00" {
		t.Fatalf("unexpected updated_at %q", resp.UpdatedAt)
	}
	if !strings.HasSuffix(resp.Played, "ago") {
		t.Fatalf("expected relative played time, got %q", resp.Played)
	}
	if svc.lastDays != 3 || svc.lastTeam != "BOS" {
		t.Fatalf("unexpected query %d %q", svc.lastDays, svc.lastTeam)
	}
	for _, key := range []string{"top5_teams", "close_game", "total_points", "star_power", "favorite_team", "lead_changes", "buzz"} {
		item, ok := resp.Breakdown[key]
		if !ok {
			t.Fatalf("missing breakdown key %s", key)
		}
		if !strings.Contains(item.Points, ".") {
			t.Fatalf("%s points not preformatted: %q", key, item.Points)
		}
	}
	if m := resp.Breakdown["close_game"].Margin; m == nil || *m != 2 {
		t.Fatalf("expected close game margin 2, got %v", m)
	}
}

func TestTRMNLOutOfRangeDaysFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"0", "15", "abc"} {
		svc := okRecommender()
		logger, buf := testutil.NewBufferLogger()
		h := trmnlHandler(svc)
		h.logger = logger

		rr := testutil.Serve(http.HandlerFunc(h.TRMNL), http.MethodGet, "/api/trmnl?days="+raw, nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
		if svc.lastDays != recommend.DefaultDays {
			t.Fatalf("days=%s: expected default, got %d", raw, svc.lastDays)
		}
		if !strings.Contains(buf.String(), "invalid trmnl days") {
			t.Fatalf("days=%s: expected warning, got %q", raw, buf.String())
		}
	}
}

func TestTRMNLUnknownTeamIsIgnored(t *testing.T) {
	svc := okRecommender()
	logger, buf := testutil.NewBufferLogger()
	h := trmnlHandler(svc)
	h.logger = logger

	rr := testutil.Serve(http.HandlerFunc(h.TRMNL), http.MethodGet, "/api/trmnl?team=xyz", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if svc.lastTeam != "" {
		t.Fatalf("expected no favorite for unknown team, got %q", svc.lastTeam)
	}
	testutil.AssertLogged(t, buf, "unknown trmnl team")
}

func TestTRMNLValidationErrorIsBadRequest(t *testing.T) {
	h := trmnlHandler(failingRecommender(recommend.CodeValidation))
	rr := testutil.Serve(http.HandlerFunc(h.TRMNL), http.MethodGet, "/api/trmnl", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestTRMNLNoGamesIsStillOK(t *testing.T) {
	h := trmnlHandler(failingRecommender(recommend.CodeNoGames))
	rr := testutil.Serve(http.HandlerFunc(h.TRMNL), http.MethodGet, "/api/trmnl?days=2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp trmnlPayload
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Game != nil || resp.Score != "0" {
		t.Fatalf("expected empty payload, got %+v", resp)
	}
	if resp.ErrorMessage != "No NBA games found in the past 2 days" {
		t.Fatalf("unexpected message %q", resp.ErrorMessage)
	}
}

func TestTRMNLFailureIsServerError(t *testing.T) {
	h := trmnlHandler(failingRecommender(recommend.CodeUpstreamTimeout))
	rr := testutil.Serve(http.HandlerFunc(h.TRMNL), http.MethodGet, "/api/trmnl", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)

	var resp trmnlPayload
	testutil.DecodeJSON(t, rr, &resp)
	if resp.ErrorMessage != "Error: nope" {
		t.Fatalf("unexpected message %q", resp.ErrorMessage)
	}
}

func TestFormatPoints(t *testing.T) {
	cases := map[float64]string{0: "0.0", 18: "18.0", 12.34: "12.3", 40: "40.0"}
	for in, want := range cases {
		if got := formatPoints(in); got != want {
			t.Fatalf("formatPoints(%v) = %q, want %q", in, got, want)
		}
	}
}
