// Package format turns raw registry values into display strings.
package format

import (
	"fmt"
	"time"
)

const (
	unitB  int64 = 1
	unitKB       = unitB * 1024
	unitMB       = unitKB * 1024
	unitGB       = unitMB * 1024

	day = 24 * time.Hour
)

// FormatBytes renders a byte count in the largest of B, KB, MB or GB whose
// value is at least 1, base 1024, with two decimals.
func FormatBytes(bytes int64) string {
	var (
		div  int64
		unit string
	)

	switch {
	case bytes >= unitGB:
		div, unit = unitGB, "GB"
	case bytes >= unitMB:
		div, unit = unitMB, "MB"
	case bytes >= unitKB:
		div, unit = unitKB, "KB"
	default:
		div, unit = unitB, "B"
	}

	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), unit)
}

// DateAndDaysAgo is the display form of an image creation time
type DateAndDaysAgo struct {
	FormattedDate string // YYYY-MM-DD, UTC
	DaysAgo       string // "Today", "1 day ago" or "{n} days ago"
}

// FormatDateAndDaysAgo parses an RFC 3339 timestamp and formats it relative to now
func FormatDateAndDaysAgo(timestamp string, now time.Time) (DateAndDaysAgo, error) {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return DateAndDaysAgo{}, fmt.Errorf("failed to parse timestamp %q: %w", timestamp, err)
	}
	return DateAndDaysAgoFor(t, now), nil
}

// DateAndDaysAgoFor formats t relative to now. Days are whole 24 hour
// periods elapsed, not calendar days; a t after now counts as today.
func DateAndDaysAgoFor(t, now time.Time) DateAndDaysAgo {
	return DateAndDaysAgo{
		FormattedDate: t.UTC().Format(time.DateOnly),
		DaysAgo:       DaysAgo(DaysBetween(t, now)),
	}
}

// DaysBetween returns the number of full days from t to now, never negative
func DaysBetween(t, now time.Time) int {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / day)
}

// DaysAgo renders a day count
func DaysAgo(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
