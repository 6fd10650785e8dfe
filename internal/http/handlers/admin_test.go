package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/gamesync"
	"github.com/preston-bernstein/nba-game-recommender/internal/testutil"
)

type stubSyncer struct {
	res   gamesync.Result
	err   error
	calls int
}

func (s *stubSyncer) SyncNow(context.Context) (gamesync.Result, error) {
	s.calls++
	return s.res, s.err
}

type stubRefresher struct{ calls int }

func (s *stubRefresher) RefreshReferenceData() { s.calls++ }

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(context.Context) error {
	s.calls++
	return s.err
}

func syncRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	if token != "" {
		req.Header.Set("X-Sync-Token", token)
	}
	return req
}

func TestSyncRequiresConfiguration(t *testing.T) {
	h := NewAdminHandler(AdminConfig{Syncer: &stubSyncer{}}, nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Sync), syncRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestSyncRejectsBadToken(t *testing.T) {
	syncer := &stubSyncer{}
	logger, buf := testutil.NewBufferLogger()
	h := NewAdminHandler(AdminConfig{Syncer: syncer, SyncToken: "secret"}, logger)

	for _, token := range []string{"", "wrong", "secret2"} {
		rr := testutil.ServeRequest(http.HandlerFunc(h.Sync), syncRequest(token))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
	if syncer.calls != 0 {
		t.Fatalf("expected no sync runs, got %d", syncer.calls)
	}
	if !strings.Contains(buf.String(), "admin unauthorized") {
		t.Fatalf("expected unauthorized log, got %q", buf.String())
	}
}

func TestSyncReportsResults(t *testing.T) {
	syncer := &stubSyncer{res: gamesync.Result{StartDate: "2024-01-13", EndDate: "2024-01-16", Fetched: 9, Stored: 8}}
	h := NewAdminHandler(AdminConfig{Syncer: syncer, SyncToken: "secret"}, nil)
	h.now = testutil.NowAt(time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC))

	rr := testutil.ServeRequest(http.HandlerFunc(h.Sync), syncRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Success  bool            `json:"success"`
		Results  gamesync.Result `json:"results"`
		SyncedAt string          `json:"synced_at"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.Success || resp.Results != syncer.res || resp.SyncedAt != "2024-01-16T06:00:00Z" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestSyncMapsErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{gamesync.ErrInProgress, http.StatusConflict},
		{errors.New("store down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		h := NewAdminHandler(AdminConfig{Syncer: &stubSyncer{err: tc.err}, SyncToken: "secret"}, nil)
		rr := testutil.ServeRequest(http.HandlerFunc(h.Sync), syncRequest("secret"))
		testutil.AssertStatus(t, rr, tc.want)
	}
}

func TestRefreshReferenceRequiresBearer(t *testing.T) {
	ref := &stubRefresher{}
	cache := &stubInvalidator{}
	h := NewAdminHandler(AdminConfig{Reference: ref, Cache: cache, AdminToken: "admin"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/reference/refresh", nil)
	req.Header.Set("Authorization", "admin")
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.RefreshReference), req), http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodPost, "/admin/reference/refresh", nil)
	req.Header.Set("Authorization", "Bearer admin")
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.RefreshReference), req), http.StatusOK)

	if ref.calls != 1 || cache.calls != 1 {
		t.Fatalf("expected one refresh and one invalidation, got %d %d", ref.calls, cache.calls)
	}
}

func TestRefreshReferenceToleratesCacheFailure(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	h := NewAdminHandler(AdminConfig{Reference: &stubRefresher{}, Cache: &stubInvalidator{err: errors.New("redis gone")}, AdminToken: "admin"}, logger)

	req := httptest.NewRequest(http.MethodPost, "/admin/reference/refresh", nil)
	req.Header.Set("Authorization", "Bearer admin")
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.RefreshReference), req), http.StatusOK)
	if !strings.Contains(buf.String(), "cache invalidation failed") {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}

func TestRefreshReferenceUnconfigured(t *testing.T) {
	h := NewAdminHandler(AdminConfig{Reference: &stubRefresher{}}, nil)
	rr := testutil.Serve(http.HandlerFunc(h.RefreshReference), http.MethodPost, "/admin/reference/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}
