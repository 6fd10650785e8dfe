package testutil

import "time"

// leagueTZ mirrors the default league timezone used to bucket game days.
const leagueTZ = "America/New_York"

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

// DaysAgo returns the league-local calendar day n days before today as YYYY-MM-DD.
// Tests that run against the real clock use it to land games inside a window.
func DaysAgo(n int) string {
	loc, err := time.LoadLocation(leagueTZ)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).AddDate(0, 0, -n).Format(time.DateOnly)
}
