// internal/daily/daily.go
//
// Calendar-day keys for the daily puzzle.
// A key is YYYY-MM-DD in the caller's timezone; the server falls back to its
// configured zone when the client does not send one.

package daily

import (
	"fmt"
	"time"
)

// KeyLayout is the time layout of a date key.
const KeyLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD for t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// Today returns the date key for now in loc (UTC when loc is nil).
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return DateKey(now.In(loc))
}

// ParseKey validates a date key and returns midnight UTC of that day.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("date key %q: %w", key, err)
	}
	return t, nil
}

// LongDate renders a key as "October 18, 2026". Invalid keys are returned as-is.
func LongDate(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return key
	}
	return t.Format("January 2, 2006")
}

// DaysBetween returns the whole days from a to b (b-a), both given as keys.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseKey(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}
