package nbastats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
	"github.com/preston-bernstein/nba-game-recommender/internal/domain/teams"
	"github.com/preston-bernstein/nba-game-recommender/internal/metrics"
	"github.com/preston-bernstein/nba-game-recommender/internal/providers"
	"github.com/preston-bernstein/nba-game-recommender/internal/reference"
	"github.com/preston-bernstein/nba-game-recommender/internal/timeutil"
)

// Config controls how the client reaches stats.nba.com.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RequestDelay time.Duration
	HTTPClient   *http.Client
	Timezone     string
	// ReferenceTTL expires the standings and leaders sets. Zero keeps them
	// until RefreshReferenceData is called.
	ReferenceTTL time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Client is the primary game provider. It reads the daily scoreboard and
// enriches each final game with play-by-play lead changes and a box score
// star count.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient httpDoer
	pacer      *providers.Pacer
	loc        *time.Location
	ref        *reference.Cache
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
}

// NewClient wires a client and its own reference cache.
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		timeout:    resolveTimeout(cfg.Timeout),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		pacer:      providers.NewPacer(cfg.RequestDelay),
		loc:        providers.LeagueLocation(cfg.Timezone),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
	c.ref = reference.NewCache(c,
		reference.WithTTL(cfg.ReferenceTTL),
		reference.WithLogger(cfg.Logger),
	)
	return c
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return providerName }

// Reference exposes the client's standings and leaders cache.
func (c *Client) Reference() *reference.Cache { return c.ref }

// FetchCompletedGames returns every final game dated within [start, end].
// A failed scoreboard fails the whole call; failed detail fetches only
// reset that game's lead changes or star count to zero.
func (c *Client) FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error) {
	out := make([]games.GameRecord, 0)
	for _, day := range timeutil.DaysBetween(start, end, c.loc) {
		board, err := c.scoreboard(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("scoreboard %s: %w", day, err)
		}
		for _, g := range board {
			if g.GameStatus != statusFinal {
				continue
			}
			record := mapGame(g, day)
			if err := c.enrich(ctx, &record); err != nil {
				return nil, err
			}
			out = append(out, record)
		}
	}
	return out, nil
}

// IsTop5Team reports top-5 membership from the cached standings.
func (c *Client) IsTop5Team(ctx context.Context, abbr string) bool {
	return c.ref.IsTop5Team(ctx, abbr)
}

// RefreshReferenceData drops the cached standings and leaders.
func (c *Client) RefreshReferenceData() {
	c.ref.Invalidate()
}

func (c *Client) scoreboard(ctx context.Context, day string) ([]scoreboardGame, error) {
	params := url.Values{}
	params.Set("GameDate", day)
	params.Set("LeagueID", leagueID)

	var payload scoreboardResponse
	if err := c.getJSON(ctx, endpointScoreboard, params, &payload); err != nil {
		return nil, err
	}
	return payload.Scoreboard.Games, nil
}

// enrich fills lead changes and star count. Only cancellation of ctx is
// returned; every other failure is absorbed.
func (c *Client) enrich(ctx context.Context, record *games.GameRecord) error {
	leadChanges, err := c.leadChanges(ctx, record.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.detailFallback(ctx, record.ID, "playbyplay", err)
		leadChanges = 0
	}
	record.LeadChanges = leadChanges

	players, err := c.playersWhoPlayed(ctx, record.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.detailFallback(ctx, record.ID, "boxscore", err)
		players = nil
	}
	record.StarPlayersCount = c.ref.StarCount(ctx, players)
	return nil
}

func (c *Client) leadChanges(ctx context.Context, gameID string) (int, error) {
	var payload playByPlayResponse
	if err := c.getJSON(ctx, endpointPlayByPlay, gameParams(gameID), &payload); err != nil {
		return 0, err
	}
	snapshots := make([]Snapshot, 0, len(payload.Game.Actions))
	for _, action := range payload.Game.Actions {
		if s, ok := action.snapshot(); ok {
			snapshots = append(snapshots, s)
		}
	}
	return CountLeadChanges(snapshots), nil
}

func (c *Client) playersWhoPlayed(ctx context.Context, gameID string) ([]string, error) {
	params := gameParams(gameID)
	params.Set("StartRange", "0")
	params.Set("EndRange", "0")
	params.Set("RangeType", "0")

	var payload boxScoreResponse
	if err := c.getJSON(ctx, endpointBoxScore, params, &payload); err != nil {
		return nil, err
	}
	box := payload.BoxScoreTraditional
	names := make([]string, 0, len(box.HomeTeam.Players)+len(box.AwayTeam.Players))
	for _, p := range append(box.HomeTeam.Players, box.AwayTeam.Players...) {
		if !p.played() {
			continue
		}
		if name := p.fullName(); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (c *Client) detailFallback(ctx context.Context, gameID, stage string, err error) {
	providers.LogDetailFallback(ctx, c.logger, &providers.DetailError{
		Provider: providerName,
		GameID:   gameID,
		Stage:    stage,
		Err:      err,
	})
	if c.metrics != nil {
		c.metrics.RecordDetailFallback(providerName)
	}
}

// FetchTopTeams returns the five best records by win percentage.
func (c *Client) FetchTopTeams(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueID)
	params.Set("Season", seasonFor(c.now().In(c.loc)))
	params.Set("SeasonType", seasonType)

	var payload resultSetsResponse
	if err := c.getJSON(ctx, endpointStandings, params, &payload); err != nil {
		return nil, err
	}
	set, ok := payload.first()
	if !ok {
		return nil, errors.New("standings: empty result set")
	}

	cityIdx, nameIdx, pctIdx := set.column("TeamCity"), set.column("TeamName"), set.column("WinPCT")
	if nameIdx < 0 || pctIdx < 0 {
		return nil, errors.New("standings: missing TeamName or WinPCT column")
	}

	type ranked struct {
		abbr string
		pct  float64
	}
	rows := make([]ranked, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		city, name := cellString(row, cityIdx), cellString(row, nameIdx)
		abbr, ok := teams.AbbreviationForName(strings.TrimSpace(city + " " + name))
		if !ok {
			abbr, ok = teams.AbbreviationForName(name)
		}
		if !ok {
			continue
		}
		rows = append(rows, ranked{abbr: abbr, pct: cellFloat(row, pctIdx)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].pct > rows[j].pct })

	if len(rows) > topTeamsCount {
		rows = rows[:topTeamsCount]
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.abbr)
	}
	if len(out) == 0 {
		return nil, errors.New("standings: no recognizable teams")
	}
	return out, nil
}

// FetchStarPlayers returns the league's top scorers by points per game.
func (c *Client) FetchStarPlayers(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueID)
	params.Set("PerMode", "PerGame")
	params.Set("Scope", "S")
	params.Set("Season", seasonFor(c.now().In(c.loc)))
	params.Set("SeasonType", seasonType)
	params.Set("StatCategory", "PTS")

	var payload resultSetsResponse
	if err := c.getJSON(ctx, endpointLeaders, params, &payload); err != nil {
		return nil, err
	}
	set, ok := payload.first()
	if !ok {
		return nil, errors.New("leaders: empty result set")
	}
	playerIdx := set.column("PLAYER")
	if playerIdx < 0 {
		return nil, errors.New("leaders: missing PLAYER column")
	}

	out := make([]string, 0, starPlayerLimit)
	for _, row := range set.RowSet {
		if len(out) == starPlayerLimit {
			break
		}
		if name := strings.TrimSpace(cellString(row, playerIdx)); name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("leaders: no players")
	}
	return out, nil
}

func gameParams(gameID string) url.Values {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "0")
	return params
}

func mapGame(g scoreboardGame, day string) games.GameRecord {
	return games.GameRecord{
		ID:       g.GameID,
		Date:     day,
		HomeTeam: mapTeam(g.HomeTeam),
		AwayTeam: mapTeam(g.AwayTeam),
		Provider: providerName,
	}
}

func mapTeam(t scoreboardTeam) games.TeamScore {
	name := strings.TrimSpace(t.TeamName)
	abbr := teams.Normalize(t.TeamTricode)
	if name == "" {
		if team, ok := teams.Lookup(abbr); ok {
			name = team.Name
		}
	}
	return games.TeamScore{
		Name:         name,
		Abbreviation: abbr,
		Score:        t.Score.Value,
	}
}
