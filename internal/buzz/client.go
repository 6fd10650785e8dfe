package buzz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4096
	defaultTimeout   = 2 * time.Minute
	maxRetries       = 2
	maxContinuations = 3
	webSearchMaxUses = 5
	continuePrompt   = "Continue."
)

// Config wires the Anthropic Messages API client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Client scores a batch of games in one model conversation with web search enabled.
type Client struct {
	api       anthropic.Client
	apiKey    string
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(maxRetries),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	c.api = anthropic.NewClient(opts...)
	return c
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

// ScoreBatch returns a Result for every game in batch. An empty batch yields an
// empty map; any failure yields zeros.
func (c *Client) ScoreBatch(ctx context.Context, batch []games.GameRecord) map[string]Result {
	logger := logging.FromContext(ctx, c.logger)
	if len(batch) == 0 {
		return map[string]Result{}
	}
	if !c.Available() {
		logging.Info(logger, "buzz scoring skipped: no api key configured")
		c.record(metrics.BuzzSkipped, 0)
		return zeros(batch)
	}

	start := time.Now()
	scores, err := c.score(ctx, batch)
	if err != nil {
		logging.Error(logger, "buzz scoring failed", err, "games", len(batch))
		c.record(metrics.BuzzFailed, time.Since(start))
		return zeros(batch)
	}
	c.record(metrics.BuzzOK, time.Since(start))
	return scores
}

func (c *Client) record(outcome string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordBuzz(outcome, d)
	}
}

func (c *Client) score(ctx context.Context, batch []games.GameRecord) (map[string]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(batch))),
	}
	resp, err := c.send(ctx, messages)
	if err != nil {
		return nil, err
	}
	// A paused server-tool turn is replayed as-is and resumed.
	for i := 0; i < maxContinuations && resp.StopReason == anthropic.StopReasonPauseTurn; i++ {
		messages = append(messages,
			resp.ToParam(),
			anthropic.NewUserMessage(anthropic.NewTextBlock(continuePrompt)),
		)
		if resp, err = c.send(ctx, messages); err != nil {
			return nil, err
		}
	}

	text := lastText(resp.Content)
	if text == "" {
		return nil, errors.New("reply has no text block")
	}
	scores, err := parseScores(text, batch)
	if err != nil {
		return nil, fmt.Errorf("parse reply %q: %w", truncate(text, 300), err)
	}
	return scores, nil
}

func (c *Client) send(ctx context.Context, messages []anthropic.MessageParam) (*anthropic.Message, error) {
	resp, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages:  messages,
		Tools: []anthropic.ToolUnionParam{{
			OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
				MaxUses: anthropic.Int(webSearchMaxUses),
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("messages api: %w", err)
	}
	return resp, nil
}

// lastText returns the final text block; search results and tool calls come first.
func lastText(blocks []anthropic.ContentBlockUnion) string {
	text := ""
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			text = b.Text
		}
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
