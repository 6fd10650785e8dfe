package buzz

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

func formatGameList(batch []games.GameRecord) string {
	lines := make([]string, 0, len(batch))
	for _, g := range batch {
		lines = append(lines, fmt.Sprintf("- Game %s: %s %d @ %d %s on %s (margin: %d)",
			g.ID,
			g.AwayTeam.Abbreviation, g.AwayTeam.Score,
			g.HomeTeam.Score, g.HomeTeam.Abbreviation,
			g.Date, g.FinalMargin()))
	}
	return strings.Join(lines, "\n")
}

func buildPrompt(batch []games.GameRecord) string {
	firstID := "GAME_ID"
	if len(batch) > 0 {
		firstID = batch[0].ID
	}
	var b strings.Builder
	b.WriteString("Analyze the following NBA games and rate how much online buzz, excitement, and media attention each game generated. ")
	b.WriteString("Search for recent articles, social media discussion, and news coverage about these games.\n\n")
	b.WriteString("Games to analyze:\n")
	b.WriteString(formatGameList(batch))
	b.WriteString("\n\nFor each game, consider:\n")
	b.WriteString("- Was this a rivalry game or marquee matchup?\n")
	b.WriteString("- Did any player have a historic or standout performance?\n")
	b.WriteString("- Was there a dramatic finish (buzzer beater, overtime, comeback)?\n")
	b.WriteString("- Did this game have playoff implications or milestone moments?\n")
	b.WriteString("- How much social media and news coverage did it receive?\n\n")
	fmt.Fprintf(&b, "Respond with ONLY a JSON object mapping each game ID to a score (0-%d) and brief reasoning. Use this exact format:\n", int(MaxScore))
	fmt.Fprintf(&b, "{\n  %q: {\"score\": <0-%d>, \"reasoning\": \"<one sentence>\"},\n  ...\n}\n\n", firstID, int(MaxScore))
	b.WriteString("Score guide: 0 = no buzz, 10 = below average, 20 = average coverage, 30 = significant buzz, 40 = massive viral moment.\n")
	b.WriteString("Return ONLY the JSON object, no other text.")
	return b.String()
}
