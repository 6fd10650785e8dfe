package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Window returns [today - days, today] as calendar days in loc.
func Window(now time.Time, days int, loc *time.Location) (time.Time, time.Time) {
	end := StartOfDay(now, loc)
	return end.AddDate(0, 0, -days), end
}

// DaysBetween lists each calendar day in [start, end] in loc, oldest first.
// It returns nil when end is before start.
func DaysBetween(start, end time.Time, loc *time.Location) []string {
	from := StartOfDay(start, loc)
	to := StartOfDay(end, loc)
	if to.Before(from) {
		return nil
	}
	var out []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, FormatDate(d))
	}
	return out
}
