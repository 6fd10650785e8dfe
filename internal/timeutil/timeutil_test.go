package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestWindowSpansDaysPlusToday(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	// 03:00 UTC is still the previous evening in New York.
	now := time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC)
	start, end := Window(now, 7, loc)
	if FormatDate(end) != "2024-01-15" || FormatDate(start) != "2024-01-08" {
		t.Fatalf("unexpected window %s..%s", FormatDate(start), FormatDate(end))
	}
	days := DaysBetween(start, end, loc)
	if len(days) != 8 || days[0] != "2024-01-08" || days[7] != "2024-01-15" {
		t.Fatalf("unexpected days %v", days)
	}
}

func TestDaysBetweenReversedRange(t *testing.T) {
	a := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b, time.UTC); got != nil {
		t.Fatalf("expected nil for reversed range, got %v", got)
	}
}
