package utils

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// TripDurationDays returns ceil(return - departure) in whole days.
// Zero when the range is inverted; callers validate the range separately.
func TripDurationDays(departure, ret time.Time) int {
	diff := ret.Sub(departure)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// EnumerateTripDates lists every calendar date of the trip, one per day of
// duration, starting at the departure date.
func EnumerateTripDates(departure time.Time, durationDays int) []string {
	dates := make([]string, 0, durationDays)
	for i := 0; i < durationDays; i++ {
		dates = append(dates, departure.AddDate(0, 0, i).Format(dateLayout))
	}
	return dates
}

// FormatTripDate renders a date for prompt text, e.g. "Monday, 02 Jan 2006".
func FormatTripDate(t time.Time) string {
	return t.Format("Monday, 02 Jan 2006")
}

// ParseTripDate parses a YYYY-MM-DD date string.
func ParseTripDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSeconds converts an epoch value in seconds to UTC time.
// Returns zero time for t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
