package timeutil

import (
	"strings"
	"time"
)

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

// Today returns the calendar date of now in loc (UTC when loc is nil).
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(now.In(loc))
}

// ParseGameTime accepts either a bare date or an RFC3339 timestamp. Bare dates are
// midnight in loc so they keep their calendar day.
func ParseGameTime(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if len(value) == len(DateLayout) {
		return time.ParseInLocation(DateLayout, value, loc)
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// SeasonFor returns the NBA season start year for t: seasons tip off in October,
// so January through September belong to the previous year's season.
func SeasonFor(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year()
	}
	return t.Year() - 1
}

// LoadZone resolves an IANA zone name. An empty name is UTC; an unknown name reports ok=false
// and also yields UTC.
func LoadZone(name string) (loc *time.Location, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}
