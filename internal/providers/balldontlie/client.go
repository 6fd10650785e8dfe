package balldontlie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/reference"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

// Config controls how the balldontlie client reaches the upstream API.
type Config struct {
	BaseURL      string
	APIKey       string
	HTTPClient   *http.Client
	Timezone     string
	MaxPages     int
	RequestDelay time.Duration
	ReferenceTTL time.Duration
	Logger       *slog.Logger
}

// Client is the backup provider. Scores come straight from /games; lead
// changes are estimated from the margin and star counts are always zero.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	pacer      *providers.Pacer
	loc        *time.Location
	maxPages   int
	ref        *reference.Cache
	now        func() time.Time
}

// NewClient constructs a balldontlie client with the provided configuration.
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		pacer:      providers.NewPacer(cfg.RequestDelay),
		loc:        providers.LeagueLocation(cfg.Timezone),
		maxPages:   resolveMaxPages(cfg.MaxPages),
		now:        time.Now,
	}
	c.ref = reference.NewCache(c,
		reference.WithTTL(cfg.ReferenceTTL),
		reference.WithLogger(cfg.Logger),
	)
	return c
}

func (c *Client) Name() string { return providerName }

// FetchCompletedGames pages through /games for the window and keeps finals.
func (c *Client) FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error) {
	days := timeutil.DaysBetween(start, end, c.loc)
	if len(days) == 0 {
		return []games.GameRecord{}, nil
	}

	params := url.Values{}
	params.Set("start_date", days[0])
	params.Set("end_date", days[len(days)-1])
	params.Set("per_page", strconv.Itoa(defaultPerPage))

	out := make([]games.GameRecord, 0)
	page := 1
	for {
		var payload gamesResponse
		if err := c.getJSON(ctx, "/games", params, &payload); err != nil {
			return nil, err
		}
		for _, g := range payload.Data {
			if isFinal(g.Status) {
				out = append(out, mapGame(g))
			}
		}

		if page >= c.maxPages || len(payload.Data) == 0 {
			break
		}
		if payload.Meta.NextCursor != nil {
			params.Set("cursor", strconv.Itoa(*payload.Meta.NextCursor))
		} else if payload.Meta.TotalPages > page {
			params.Set("page", strconv.Itoa(page+1))
		} else {
			break
		}
		page++
	}
	return out, nil
}

func (c *Client) IsTop5Team(ctx context.Context, abbr string) bool {
	return c.ref.IsTop5Team(ctx, abbr)
}

func (c *Client) RefreshReferenceData() {
	c.ref.Invalidate()
}

// FetchTopTeams ranks /standings by win percentage.
func (c *Client) FetchTopTeams(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(c.season()))

	var payload standingsResponse
	if err := c.getJSON(ctx, "/standings", params, &payload); err != nil {
		return nil, err
	}

	type ranked struct {
		abbr string
		pct  float64
	}
	rows := make([]ranked, 0, len(payload.Data))
	for _, s := range payload.Data {
		abbr := mapTeam(s.Team, 0).Abbreviation
		if abbr == "" {
			continue
		}
		played := s.Wins + s.Losses
		pct := 0.0
		if played > 0 {
			pct = float64(s.Wins) / float64(played)
		}
		rows = append(rows, ranked{abbr: abbr, pct: pct})
	}
	if len(rows) == 0 {
		return nil, errors.New("standings: no teams")
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].pct > rows[j].pct })
	if len(rows) > topTeamsCount {
		rows = rows[:topTeamsCount]
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.abbr
	}
	return out, nil
}

// FetchStarPlayers returns the points-per-game leaders.
func (c *Client) FetchStarPlayers(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(c.season()))
	params.Set("stat_type", "pts")

	var payload leadersResponse
	if err := c.getJSON(ctx, "/leaders", params, &payload); err != nil {
		return nil, err
	}
	sort.SliceStable(payload.Data, func(i, j int) bool { return payload.Data[i].Value > payload.Data[j].Value })

	out := make([]string, 0, starPlayerLimit)
	for _, l := range payload.Data {
		if len(out) == starPlayerLimit {
			break
		}
		if name := strings.TrimSpace(l.Player.FirstName + " " + l.Player.LastName); name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("leaders: no players for season %d", c.season())
	}
	return out, nil
}

// season is the starting year of the current season.
func (c *Client) season() int {
	now := c.now().In(c.loc)
	if now.Month() < time.October {
		return now.Year() - 1
	}
	return now.Year()
}
