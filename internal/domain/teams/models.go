package teams

import (
	"sort"
	"strings"
)

// Team is one entry of the fixed league vocabulary.
type Team struct {
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
}

var league = []Team{
	{"ATL", "Atlanta", "Hawks", "Atlanta Hawks"},
	{"BOS", "Boston", "Celtics", "Boston Celtics"},
	{"BKN", "Brooklyn", "Nets", "Brooklyn Nets"},
	{"CHA", "Charlotte", "Hornets", "Charlotte Hornets"},
	{"CHI", "Chicago", "Bulls", "Chicago Bulls"},
	{"CLE", "Cleveland", "Cavaliers", "Cleveland Cavaliers"},
	{"DAL", "Dallas", "Mavericks", "Dallas Mavericks"},
	{"DEN", "Denver", "Nuggets", "Denver Nuggets"},
	{"DET", "Detroit", "Pistons", "Detroit Pistons"},
	{"GSW", "Golden State", "Warriors", "Golden State Warriors"},
	{"HOU", "Houston", "Rockets", "Houston Rockets"},
	{"IND", "Indiana", "Pacers", "Indiana Pacers"},
	{"LAC", "LA", "Clippers", "LA Clippers"},
	{"LAL", "Los Angeles", "Lakers", "Los Angeles Lakers"},
	{"MEM", "Memphis", "Grizzlies", "Memphis Grizzlies"},
	{"MIA", "Miami", "Heat", "Miami Heat"},
	{"MIL", "Milwaukee", "Bucks", "Milwaukee Bucks"},
	{"MIN", "Minnesota", "Timberwolves", "Minnesota Timberwolves"},
	{"NOP", "New Orleans", "Pelicans", "New Orleans Pelicans"},
	{"NYK", "New York", "Knicks", "New York Knicks"},
	{"OKC", "Oklahoma City", "Thunder", "Oklahoma City Thunder"},
	{"ORL", "Orlando", "Magic", "Orlando Magic"},
	{"PHI", "Philadelphia", "76ers", "Philadelphia 76ers"},
	{"PHX", "Phoenix", "Suns", "Phoenix Suns"},
	{"POR", "Portland", "Trail Blazers", "Portland Trail Blazers"},
	{"SAC", "Sacramento", "Kings", "Sacramento Kings"},
	{"SAS", "San Antonio", "Spurs", "San Antonio Spurs"},
	{"TOR", "Toronto", "Raptors", "Toronto Raptors"},
	{"UTA", "Utah", "Jazz", "Utah Jazz"},
	{"WAS", "Washington", "Wizards", "Washington Wizards"},
}

var (
	byAbbr = make(map[string]Team, len(league))
	byName = make(map[string]Team, len(league)*3)
)

func init() {
	for _, t := range league {
		byAbbr[t.Abbreviation] = t
		byName[strings.ToLower(t.FullName)] = t
		byName[strings.ToLower(t.Name)] = t
	}
	// Alternate spellings seen upstream.
	byName["los angeles clippers"] = byAbbr["LAC"]
	byName["la lakers"] = byAbbr["LAL"]
}

// All returns the league vocabulary sorted by abbreviation.
func All() []Team {
	out := make([]Team, len(league))
	copy(out, league)
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}

// Normalize upper-cases and trims an abbreviation.
func Normalize(abbr string) string {
	return strings.ToUpper(strings.TrimSpace(abbr))
}

// IsKnown reports whether abbr belongs to the vocabulary, ignoring case.
func IsKnown(abbr string) bool {
	_, ok := byAbbr[Normalize(abbr)]
	return ok
}

// Lookup returns the team for an abbreviation.
func Lookup(abbr string) (Team, bool) {
	t, ok := byAbbr[Normalize(abbr)]
	return t, ok
}

// AbbreviationForName maps a full or short team name to its abbreviation.
func AbbreviationForName(name string) (string, bool) {
	t, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return t.Abbreviation, true
}
