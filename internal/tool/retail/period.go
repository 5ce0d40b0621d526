package retail

import (
	"fmt"
	"strings"
	"time"
)

// window is a resolved reporting period. Store queries treat both bounds as
// inclusive.
type window struct {
	Period string
	From   time.Time
	To     time.Time
}

var periodNames = []string{
	"today", "yesterday", "this_week", "last_week", "this_month",
	"last_month", "last_30_days", "last_90_days", "this_year", "all_time",
}

// resolvePeriod maps a period keyword to concrete bounds. An empty period
// falls back to the tool's documented default. Weeks start on Monday;
// last_30_days and last_90_days are rolling.
func resolvePeriod(period, fallback string, now time.Time) (window, error) {
	name := strings.ToLower(strings.TrimSpace(period))
	if name == "" {
		name = fallback
	}

	var from, to time.Time
	switch name {
	case "today":
		from, to = startOfDay(now), now
	case "yesterday":
		day := now.AddDate(0, 0, -1)
		from, to = startOfDay(day), endOfDay(day)
	case "this_week":
		from, to = startOfWeek(now), now
	case "last_week":
		week := startOfWeek(now)
		from, to = week.AddDate(0, 0, -7), endOfDay(week.AddDate(0, 0, -1))
	case "this_month":
		from, to = startOfMonth(now), now
	case "last_month":
		month := startOfMonth(now)
		from, to = month.AddDate(0, -1, 0), endOfDay(month.AddDate(0, 0, -1))
	case "last_30_days":
		from, to = now.AddDate(0, 0, -30), now
	case "last_90_days":
		from, to = now.AddDate(0, 0, -90), now
	case "this_year":
		from, to = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	case "all_time":
		from, to = time.Time{}, now
	default:
		return window{}, fmt.Errorf("unknown period %q (valid: %s)", period, strings.Join(periodNames, ", "))
	}

	return window{Period: name, From: from, To: to}, nil
}

// ResolvePeriod maps a reporting period name onto concrete bounds for
// callers outside the tool set, defaulting to this_month when empty.
func ResolvePeriod(period string, now time.Time) (from, to time.Time, err error) {
	w, err := resolvePeriod(period, "this_month", now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return w.From, w.To, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfWeek returns Monday 00:00 of the week containing t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// periodProperty is the shared JSON-schema fragment for a period parameter.
func periodProperty(fallback string) map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        periodNames,
		"description": "Reporting period. Weeks start Monday; last_30_days/last_90_days are rolling. Defaults to " + fallback + ".",
	}
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

func daysSince(t, now time.Time) int {
	if t.After(now) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}
