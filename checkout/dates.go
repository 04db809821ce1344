package checkout

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the canonical date-only representation used throughout
// checkout. Dates become full ISO instants only when the gateway serializes
// a rental request.
const DateLayout = "2006-01-02"

// maxRentalMonths caps a rental window. A UI-level guard only: edits beyond
// it are clamped, never rejected, and the backend stays free to enforce its
// own rule.
const maxRentalMonths = 3

// ParseDate parses a date-only value at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "[checkout ParseDate]")
	}
	return parsed, nil
}

// FormatDate renders a date-only value.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseInstant accepts either a full ISO instant (how the backend reports
// rental dates) or a bare date, truncated to its UTC calendar date.
func ParseInstant(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return Midnight(parsed), nil
	}
	return ParseDate(value)
}

// Midnight truncates an instant to its UTC calendar date.
func Midnight(instant time.Time) time.Time {
	year, month, day := instant.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// RentalDays computes the rental duration in whole days:
// ceil(abs(end-start) / 86400000ms) on calendar dates. A span of Jan 1 to
// Jan 8 yields 7.
func RentalDays(start, end time.Time) int {
	millis := Midnight(end).Sub(Midnight(start)).Milliseconds()
	if millis < 0 {
		millis = -millis
	}
	return int(math.Ceil(float64(millis) / 86400000.0))
}

// ClampEndDate bounds end into [start, start+3 months]. Idempotent: clamping
// an already-clamped value returns it unchanged.
func ClampEndDate(start, end time.Time) time.Time {
	start, end = Midnight(start), Midnight(end)
	if end.Before(start) {
		return start
	}
	latest := start.AddDate(0, maxRentalMonths, 0)
	if end.After(latest) {
		return latest
	}
	return end
}

// DefaultRange returns the window a fresh cart line starts with: today
// through seven days out.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	start := Midnight(now)
	return start, start.AddDate(0, 0, 7)
}
