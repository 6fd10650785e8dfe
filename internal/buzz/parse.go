package buzz

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n```")

var errNoJSON = errors.New("no json object in reply")

// extractJSON pulls the score object out of a model reply that may carry
// preamble text or a markdown fence.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "```") {
		if m := fencePattern.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
	}
	if strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
		return text, nil
	}
	if obj, ok := firstObject(text); ok {
		return obj, nil
	}
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1], nil
	}
	return "", errNoJSON
}

// firstObject returns the first brace-balanced object, skipping braces in strings.
func firstObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

type rawEntry struct {
	Score     json.RawMessage `json:"score"`
	Reasoning any             `json:"reasoning"`
}

// parseScores maps every game in batch to a clamped Result. Games missing
// from the reply, or with unusable entries, score zero.
func parseScores(text string, batch []games.GameRecord) (map[string]Result, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	out := make(map[string]Result, len(batch))
	for _, g := range batch {
		var entry rawEntry
		data, ok := entries[g.ID]
		if !ok || json.Unmarshal(data, &entry) != nil {
			out[g.ID] = Result{}
			continue
		}
		reasoning, _ := entry.Reasoning.(string)
		out[g.ID] = Result{Score: Clamp(lenientFloat(entry.Score)), Reasoning: reasoning}
	}
	return out, nil
}

// lenientFloat accepts numbers and numeric strings; anything else is 0.
func lenientFloat(data json.RawMessage) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
