package providers

import "time"

// DefaultLeagueTimezone is where NBA calendar days are defined.
const DefaultLeagueTimezone = "America/New_York"

// ResolveTimezone returns a location for a tz string, or nil if invalid.
func ResolveTimezone(tz string) *time.Location {
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil
	}
	return loc
}

// LeagueLocation resolves tz, falling back to the league timezone and then UTC.
func LeagueLocation(tz string) *time.Location {
	if loc := ResolveTimezone(tz); loc != nil {
		return loc
	}
	if loc := ResolveTimezone(DefaultLeagueTimezone); loc != nil {
		return loc
	}
	return time.UTC
}
