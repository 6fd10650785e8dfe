package nbastats

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type scoreboardResponse struct {
	Scoreboard struct {
		GameDate string           `json:"gameDate"`
		Games    []scoreboardGame `json:"games"`
	} `json:"scoreboard"`
}

type scoreboardGame struct {
	GameID     string         `json:"gameId"`
	GameStatus int            `json:"gameStatus"`
	HomeTeam   scoreboardTeam `json:"homeTeam"`
	AwayTeam   scoreboardTeam `json:"awayTeam"`
}

type scoreboardTeam struct {
	TeamCity    string  `json:"teamCity"`
	TeamName    string  `json:"teamName"`
	TeamTricode string  `json:"teamTricode"`
	Score       flexInt `json:"score"`
}

type playByPlayResponse struct {
	Game struct {
		GameID  string         `json:"gameId"`
		Actions []playByPlayRow `json:"actions"`
	} `json:"game"`
}

// playByPlayRow accepts both the live scoreHome/scoreAway keys and the
// homeScore/awayScore spelling used by older payloads.
type playByPlayRow struct {
	ScoreHome flexInt `json:"scoreHome"`
	ScoreAway flexInt `json:"scoreAway"`
	HomeScore flexInt `json:"homeScore"`
	AwayScore flexInt `json:"awayScore"`
}

func (r playByPlayRow) snapshot() (Snapshot, bool) {
	if r.ScoreHome.Valid && r.ScoreAway.Valid {
		return Snapshot{Home: r.ScoreHome.Value, Away: r.ScoreAway.Value}, true
	}
	if r.HomeScore.Valid && r.AwayScore.Valid {
		return Snapshot{Home: r.HomeScore.Value, Away: r.AwayScore.Value}, true
	}
	return Snapshot{}, false
}

type boxScoreResponse struct {
	BoxScoreTraditional struct {
		GameID   string       `json:"gameId"`
		HomeTeam boxScoreTeam `json:"homeTeam"`
		AwayTeam boxScoreTeam `json:"awayTeam"`
	} `json:"boxScoreTraditional"`
}

type boxScoreTeam struct {
	Players []boxScorePlayer `json:"players"`
}

type boxScorePlayer struct {
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
	Name       string `json:"name"`
	Statistics *struct {
		Minutes string `json:"minutes"`
	} `json:"statistics"`
}

func (p boxScorePlayer) fullName() string {
	if full := strings.TrimSpace(p.FirstName + " " + p.FamilyName); full != "" {
		return full
	}
	return strings.TrimSpace(p.Name)
}

// played is false only when the box score reports zero or empty minutes.
func (p boxScorePlayer) played() bool {
	if p.Statistics == nil {
		return true
	}
	return !zeroMinutes(p.Statistics.Minutes)
}

func zeroMinutes(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	return strings.IndexFunc(raw, func(r rune) bool { return r >= '1' && r <= '9' }) < 0
}

// resultSetsResponse is the legacy tabular shape used by standings and leaders.
type resultSetsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
	ResultSet  *resultSet  `json:"resultSet"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (r resultSetsResponse) first() (resultSet, bool) {
	if r.ResultSet != nil {
		return *r.ResultSet, true
	}
	if len(r.ResultSets) > 0 {
		return r.ResultSets[0], true
	}
	return resultSet{}, false
}

func (rs resultSet) column(name string) int {
	for i, h := range rs.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cellString(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func cellFloat(row []any, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	switch v := row[idx].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// flexInt decodes numbers, numeric strings, empty strings and null.
// Valid is false when no usable value was present.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexInt{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = flexInt{}
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*f = flexInt{}
			return nil
		}
		*f = flexInt{Value: n, Valid: true}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt{Value: int(n), Valid: true}
	return nil
}
