// Package dateutil holds the calendar math shared by the API and the seeder:
// Monday-based week boundaries and short human-readable renderings.
package dateutil

import (
	"fmt"
	"time"
)

// DayKeyLayout formats the week-start keys used in weekly groupings.
const DayKeyLayout = "2006-01-02"

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
// Sunday belongs to the week that started the previous Monday.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns Sunday 23:59:59.999 of the week containing t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Millisecond)
}

// WeekKey is the "YYYY-MM-DD" form of StartOfWeek(t).
func WeekKey(t time.Time) string {
	return StartOfWeek(t).Format(DayKeyLayout)
}

// WeekNumber returns the ISO 8601 week of the year.
func WeekNumber(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// FormatDate renders "Sat, Jun 15".
func FormatDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// FormatFullDate renders "Saturday, June 15, 2024".
func FormatFullDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// FormatDistance describes how long before now t happened:
// "just now", "5m ago", "3h ago", "yesterday", "4d ago", "2w ago",
// and FormatDate beyond thirty days.
func FormatDistance(t, now time.Time) string {
	diff := now.Sub(t)
	days := int(diff / (24 * time.Hour))

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	default:
		return FormatDate(t)
	}
}
