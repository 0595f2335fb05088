package timeutil

import (
	"fmt"
	"time"
)

// Clock arithmetic for weekly recurrences. Times of day are minutes
// from midnight; intervals with end <= start cross midnight and gain
// 24 hours. All coverage duration and containment math goes through
// this package.

// MinutesPerDay is the length of a civil day in minutes.
const MinutesPerDay = 24 * 60

const (
	dateLayout      = "2006-01-02"
	dateLayoutIT    = "02/01/2006"
	clockLayout     = "15:04"
	clockLayoutLong = "15:04:05"
)

// NowIn returns the current instant in loc with the offset stripped,
// so the wall-clock fields can be stored as a naive timestamp.
func NowIn(loc *time.Location) time.Time {
	t := time.Now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// TodayIn returns the current civil date in loc at midnight.
func TodayIn(loc *time.Location) time.Time {
	t := time.Now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayOfWeek numbers weekdays with Monday = 0 through Sunday = 6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders a date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateIT renders a date as "dd/mm/yyyy".
func FormatDateIT(t time.Time) string {
	return t.Format(dateLayoutIT)
}

// ParseClock parses a strict 24-hour "HH:MM" string into minutes from
// midnight. A trailing ":SS" is tolerated because PostgreSQL returns
// TIME columns that way; API input is validated to the short form.
func ParseClock(s string) (int, error) {
	layout := clockLayout
	if len(s) == len(clockLayoutLong) {
		layout = clockLayoutLong
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidClock reports whether s is a strict "HH:MM" string.
func ValidClock(s string) bool {
	if len(s) != len(clockLayout) {
		return false
	}
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// FormatClock renders minutes from midnight as "HH:MM".
// 24:00 wraps to "00:00".
func FormatClock(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// IntervalMinutes returns the length of the interval from start to end,
// both minutes from midnight. When end <= start the interval crosses
// midnight and the next day's minutes are counted.
func IntervalMinutes(start, end int) int {
	if end <= start {
		end += MinutesPerDay
	}
	return end - start
}

// IntervalHours is IntervalMinutes expressed in hours.
func IntervalHours(start, end int) float64 {
	return float64(IntervalMinutes(start, end)) / 60
}
