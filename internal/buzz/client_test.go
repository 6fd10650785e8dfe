package buzz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
)

func textReply(stopReason, text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       defaultModel,
		"stop_reason": stopReason,
		"content": []map[string]any{
			{"type": "server_tool_use", "id": "srv_1", "name": "web_search", "input": map[string]any{"query": "nba"}},
			{"type": "text", "text": "Let me search."},
			{"type": "text", "text": text},
		},
	})
	return string(body)
}

func writeReply(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

type sentRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Tools     []struct {
		Type    string `json:"type"`
		Name    string `json:"name"`
		MaxUses int    `json:"max_uses"`
	} `json:"tools"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func TestScoreBatchSendsOneRequestAndParses(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/messages" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "k" || r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		var req sentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != defaultModel || req.MaxTokens != defaultMaxTokens || len(req.Tools) != 1 ||
			req.Tools[0].Name != "web_search" || req.Tools[0].Type != "web_search_20250305" || req.Tools[0].MaxUses != webSearchMaxUses {
			t.Errorf("unexpected request body %+v", req)
		}
		writeReply(w, textReply("end_turn", "```json\n{\"g1\": {\"score\": 31, \"reasoning\": \"OT thriller\"}}\n```"))
	}))
	defer srv.Close()

	recorder := metrics.NewRecorder()
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Metrics: recorder})
	got := c.ScoreBatch(context.Background(), batchOf("g1", "g2"))

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
	if got["g1"].Score != 31 || got["g1"].Reasoning != "OT thriller" {
		t.Fatalf("unexpected g1 result %+v", got["g1"])
	}
	if got["g2"] != (Result{}) {
		t.Fatalf("expected zero for missing game, got %+v", got["g2"])
	}
	if recorder.BuzzOutcomes(metrics.BuzzOK) != 1 {
		t.Fatalf("expected ok outcome recorded")
	}
}

func TestScoreBatchResumesPausedTurns(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		var req sentRequest
		json.NewDecoder(r.Body).Decode(&req)
		if want := int(2*n - 1); len(req.Messages) != want {
			t.Errorf("call %d: expected %d messages, got %d", n, want, len(req.Messages))
		}
		if n > 1 {
			last := req.Messages[len(req.Messages)-1]
			if last.Role != "user" || len(last.Content) != 1 || last.Content[0].Text != continuePrompt {
				t.Errorf("expected continuation message, got %s %+v", last.Role, last.Content)
			}
			if req.Messages[len(req.Messages)-2].Role != "assistant" {
				t.Errorf("expected paused assistant turn to be replayed")
			}
		}
		if n < 3 {
			writeReply(w, textReply("pause_turn", "searching"))
			return
		}
		writeReply(w, textReply("end_turn", `{"g1": {"score": 12, "reasoning": "meh"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	got := c.ScoreBatch(context.Background(), batchOf("g1"))
	if calls != 3 || got["g1"].Score != 12 {
		t.Fatalf("expected resume to final answer, calls=%d result=%+v", calls, got["g1"])
	}
}

func TestScoreBatchStopsAfterMaxContinuations(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeReply(w, textReply("pause_turn", "still searching"))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	got := c.ScoreBatch(context.Background(), batchOf("g1"))
	if calls != 1+maxContinuations {
		t.Fatalf("expected %d calls, got %d", 1+maxContinuations, calls)
	}
	if got["g1"] != (Result{}) {
		t.Fatalf("expected zero result, got %+v", got["g1"])
	}
}

func TestScoreBatchFailureYieldsZeros(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`))
	}))
	defer srv.Close()

	recorder := metrics.NewRecorder()
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Metrics: recorder})
	got := c.ScoreBatch(context.Background(), batchOf("g1", "g2"))
	if len(got) != 2 || got["g1"] != (Result{}) || got["g2"] != (Result{}) {
		t.Fatalf("expected zeros, got %+v", got)
	}
	if recorder.BuzzOutcomes(metrics.BuzzFailed) != 1 {
		t.Fatal("expected failed outcome recorded")
	}
}

func TestScoreBatchUnavailableAndEmpty(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	if c.Available() {
		t.Fatal("expected client without key to be unavailable")
	}
	got := c.ScoreBatch(context.Background(), batchOf("g1"))
	if len(got) != 1 || got["g1"] != (Result{}) {
		t.Fatalf("expected zero map, got %+v", got)
	}

	keyed := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:0"})
	if got := keyed.ScoreBatch(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected empty map for empty batch, got %+v", got)
	}

	var noop Provider = Noop{}
	if noop.Available() || len(noop.ScoreBatch(context.Background(), batchOf("a", "b"))) != 2 {
		t.Fatal("unexpected noop behavior")
	}
}
