package schedule

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"
const timeLayout = "15:04"

// unresolvedWeek buckets assignments whose date cannot be parsed. They are
// carried through untouched rather than treated as errors.
const unresolvedWeek = ""

// weekKey returns an ISO "year-Www" key for a date string, using Go's
// ISOWeek (Monday week start, first four-day week). Malformed dates map to
// unresolvedWeek.
func weekKey(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return unresolvedWeek
	}
	year, week := d.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// parseDate parses a "2006-01-02" date. The bool is false on malformed input.
func parseDate(date string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// minutesOfDay converts a "15:04" time of day to minutes since midnight.
func minutesOfDay(value string) (int, bool) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// overlaps reports whether two half-open minute intervals intersect.
func overlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}
