package nbastats

import "time"

const (
	providerName       = "nbastats"
	defaultBaseURL     = "https://stats.nba.com/stats"
	defaultHTTPTimeout = 15 * time.Second
	defaultTimezone    = "America/New_York"
	leagueID           = "00"
	seasonType         = "Regular Season"

	// scoreboardv3 gameStatus values.
	statusFinal = 3

	topTeamsCount   = 5
	starPlayerLimit = 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer   = "https://www.nba.com/"
	origin    = "https://www.nba.com"
)

const (
	endpointScoreboard = "scoreboardv3"
	endpointPlayByPlay = "playbyplayv3"
	endpointBoxScore   = "boxscoretraditionalv3"
	endpointStandings  = "leaguestandingsv3"
	endpointLeaders    = "leagueleaders"
)
