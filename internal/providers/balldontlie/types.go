package balldontlie

type gamesResponse struct {
	Data []gameResponse `json:"data"`
	Meta metaResponse   `json:"meta"`
}

type gameResponse struct {
	ID               int          `json:"id"`
	Date             string       `json:"date"`
	Status           string       `json:"status"`
	Period           int          `json:"period"`
	Postseason       bool         `json:"postseason"`
	HomeTeam         teamResponse `json:"home_team"`
	VisitorTeam      teamResponse `json:"visitor_team"`
	HomeTeamScore    int          `json:"home_team_score"`
	VisitorTeamScore int          `json:"visitor_team_score"`
	Season           int          `json:"season"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

// metaResponse carries both pagination styles: cursor (current API) and
// page counts (older responses).
type metaResponse struct {
	NextCursor *int `json:"next_cursor"`
	TotalPages int  `json:"total_pages"`
}

type standingsResponse struct {
	Data []struct {
		Team   teamResponse `json:"team"`
		Wins   int          `json:"wins"`
		Losses int          `json:"losses"`
	} `json:"data"`
}

type leadersResponse struct {
	Data []struct {
		Player struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"player"`
		Value float64 `json:"value"`
		Rank  int     `json:"rank"`
	} `json:"data"`
}
