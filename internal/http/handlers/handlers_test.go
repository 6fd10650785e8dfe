package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	appteams "github.com/preston-bernstein/nba-game-recommender/internal/app/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/poller"
	"github.com/preston-bernstein/nba-game-recommender/internal/recommend"
	"github.com/preston-bernstein/nba-game-recommender/internal/scoring"
	"github.com/preston-bernstein/nba-game-recommender/internal/testutil"
	"github.com/preston-bernstein/nba-game-recommender/internal/teststubs"
)

type stubRecommender struct {
	best     recommend.BestGameResult
	ranked   recommend.RankedResult
	lastDays int
	lastTeam string
}

func (s *stubRecommender) BestGame(_ context.Context, days int, team string) recommend.BestGameResult {
	s.lastDays, s.lastTeam = days, team
	return s.best
}

func (s *stubRecommender) RankedGames(_ context.Context, days int, team string) recommend.RankedResult {
	s.lastDays, s.lastTeam = days, team
	return s.ranked
}

func (s *stubRecommender) Weights() scoring.Weights { return scoring.DefaultWeights() }

func rankedGame() recommend.RankedGame {
	g := testutil.CloseGame("g1", "2024-01-14")
	b := scoring.NewEngine(scoring.DefaultWeights()).Score(g, scoring.Inputs{})
	return recommend.RankedGame{Game: g, Score: b.Total, Breakdown: b}
}

func okRecommender() *stubRecommender {
	game := rankedGame()
	return &stubRecommender{
		best:   recommend.BestGameResult{Result: recommend.Result{Success: true}, Data: &game},
		ranked: recommend.RankedResult{Result: recommend.Result{Success: true}, Count: 1, Data: []recommend.RankedGame{game}},
	}
}

func failingRecommender(code recommend.Code) *stubRecommender {
	res := recommend.Result{ErrorCode: code, Error: "nope"}
	return &stubRecommender{
		best:   recommend.BestGameResult{Result: res},
		ranked: recommend.RankedResult{Result: res, Data: []recommend.RankedGame{}},
	}
}

func TestHealth(t *testing.T) {
	h := NewHandler(okRecommender(), nil, Options{})
	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(okRecommender(), nil, Options{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestReadyReflectsWarmerStatus(t *testing.T) {
	status := poller.Status{}
	h := NewHandler(okRecommender(), nil, Options{Status: func() poller.Status { return status }})

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	status = poller.Status{LastSuccess: time.Now()}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	status = poller.Status{LastSuccess: time.Now(), ConsecutiveFailures: 3, LastError: "upstream down"}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if !strings.Contains(rr.Body.String(), "upstream down") {
		t.Fatalf("expected last error in body, got %s", rr.Body.String())
	}
}

func TestBestGamePassesQuery(t *testing.T) {
	svc := okRecommender()
	h := NewHandler(svc, nil, Options{})

	rr := testutil.Serve(http.HandlerFunc(h.BestGame), http.MethodGet, "/api/best-game?days=3&team=lal", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if svc.lastDays != 3 || svc.lastTeam != "lal" {
		t.Fatalf("unexpected query passed: %d %q", svc.lastDays, svc.lastTeam)
	}
	var resp recommend.BestGameResult
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.Success || resp.Data == nil || resp.Data.Game.ID != "g1" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestBestGameDefaultsDays(t *testing.T) {
	svc := okRecommender()
	testutil.Serve(http.HandlerFunc(NewHandler(svc, nil, Options{}).BestGame), http.MethodGet, "/api/best-game", nil)
	if svc.lastDays != recommend.DefaultDays {
		t.Fatalf("expected default days, got %d", svc.lastDays)
	}
}

func TestErrorCodesMapToStatus(t *testing.T) {
	cases := map[recommend.Code]int{
		recommend.CodeValidation:      http.StatusBadRequest,
		recommend.CodeNoGames:         http.StatusNotFound,
		recommend.CodeUpstreamTimeout: http.StatusServiceUnavailable,
		recommend.CodeInternal:        http.StatusInternalServerError,
	}
	for code, want := range cases {
		h := NewHandler(failingRecommender(code), nil, Options{})
		rr := testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/api/games", nil)
		testutil.AssertStatus(t, rr, want)

		var resp recommend.RankedResult
		testutil.DecodeJSON(t, rr, &resp)
		if resp.Success || resp.ErrorCode != code {
			t.Fatalf("%s: unexpected body %+v", code, resp)
		}
	}
}

func TestNonIntegerDaysIsBadRequest(t *testing.T) {
	svc := okRecommender()
	h := NewHandler(svc, nil, Options{})
	rr := testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/api/games?days=week", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if svc.lastDays != 0 {
		t.Fatal("expected no service call")
	}
}

func TestRecommendBestGame(t *testing.T) {
	svc := okRecommender()
	h := NewHandler(svc, nil, Options{})
	rr := testutil.PostJSON(http.HandlerFunc(h.Recommend), "/recommend", `{"days": 5, "favorite_team": "BOS"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp recommendResponse
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.Success || resp.ShowAll || resp.Game == nil || resp.Games != nil {
		t.Fatalf("unexpected body %+v", resp)
	}
	if svc.lastDays != 5 || svc.lastTeam != "BOS" {
		t.Fatalf("unexpected query %d %q", svc.lastDays, svc.lastTeam)
	}
}

func TestRecommendShowAll(t *testing.T) {
	svc := okRecommender()
	h := NewHandler(svc, nil, Options{})
	rr := testutil.PostJSON(http.HandlerFunc(h.Recommend), "/recommend", `{"show_all": true}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp recommendResponse
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.ShowAll || resp.Count == nil || *resp.Count != 1 || len(resp.Games) != 1 {
		t.Fatalf("unexpected body %+v", resp)
	}
	if svc.lastDays != recommend.DefaultDays {
		t.Fatalf("expected default days, got %d", svc.lastDays)
	}
}

func TestRecommendEmptyBodyUsesDefaults(t *testing.T) {
	svc := okRecommender()
	rr := testutil.Serve(http.HandlerFunc(NewHandler(svc, nil, Options{}).Recommend), http.MethodPost, "/recommend", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if svc.lastDays != recommend.DefaultDays {
		t.Fatalf("expected default days, got %d", svc.lastDays)
	}
}

func TestRecommendRejectsBadJSONAndMapsErrors(t *testing.T) {
	h := NewHandler(okRecommender(), nil, Options{})
	rr := testutil.Serve(http.HandlerFunc(h.Recommend), http.MethodPost, "/recommend", strings.NewReader(`{"days":`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	h = NewHandler(failingRecommender(recommend.CodeValidation), nil, Options{})
	rr = testutil.Serve(http.HandlerFunc(h.Recommend), http.MethodPost, "/recommend", strings.NewReader(`{"days": 45}`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	h = NewHandler(failingRecommender(recommend.CodeUpstreamTimeout), nil, Options{})
	rr = testutil.Serve(http.HandlerFunc(h.Recommend), http.MethodPost, "/recommend", strings.NewReader(`{"show_all": true}`))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestTeamsListsVocabulary(t *testing.T) {
	teams := appteams.NewService(&teststubs.StubProvider{Top5: map[string]bool{"OKC": true}})
	h := NewHandler(okRecommender(), nil, Options{Teams: teams})

	rr := testutil.Serve(http.HandlerFunc(h.Teams), http.MethodGet, "/api/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		Count int                 `json:"count"`
		Data  []appteams.TeamView `json:"data"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Count != 30 || len(resp.Data) != 30 {
		t.Fatalf("expected 30 teams, got %d", resp.Count)
	}
}

func TestTeamByAbbreviation(t *testing.T) {
	h := NewHandler(okRecommender(), nil, Options{})
	r := chi.NewRouter()
	r.Get("/api/teams/{abbr}", h.Team)

	testutil.AssertStatus(t, testutil.Serve(r, http.MethodGet, "/api/teams/mia", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(r, http.MethodGet, "/api/teams/SEA", nil), http.StatusNotFound)
}

func TestConfigExposesWeights(t *testing.T) {
	h := NewHandler(okRecommender(), nil, Options{BuzzEnabled: true})
	rr := testutil.Serve(http.HandlerFunc(h.Config), http.MethodGet, "/api/config", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Success bool       `json:"success"`
		Data    configView `json:"data"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.Success || resp.Data.Weights != scoring.DefaultWeights() || resp.Data.MaxDays != recommend.MaxDays || !resp.Data.BuzzEnabled {
		t.Fatalf("unexpected config %+v", resp)
	}
}

func TestLogResultIncludesErrorCode(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	h := NewHandler(failingRecommender(recommend.CodeNoGames), logger, Options{})
	testutil.Serve(http.HandlerFunc(h.Games), http.MethodGet, "/api/games", nil)
	testutil.AssertLogged(t, buf, "error_code=NO_GAMES")
}
