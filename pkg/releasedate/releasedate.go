// Package releasedate resolves the free-form release strings Steam attaches
// to wishlist entries into concrete calendar dates. Observed formats include
// "2025", "Q1 2025", "January 2025", "Jan 4, 2025", "4 Jan, 2025" and
// placeholders like "Coming soon" or "To be announced".
package releasedate

import (
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"January": time.January, "February": time.February, "March": time.March,
	"April": time.April, "May": time.May, "June": time.June,
	"July": time.July, "August": time.August, "September": time.September,
	"October": time.October, "November": time.November, "December": time.December,
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "Jun": time.June, "Jul": time.July,
	"Aug": time.August, "Sep": time.September, "Oct": time.October,
	"Nov": time.November, "Dec": time.December,
}

// Parse resolves a release string to a calendar date at UTC midnight.
// It returns ok=false for placeholders and anything it cannot interpret;
// callers drop such items rather than treating them as errors.
func Parse(s string) (time.Time, bool) {
	fields := strings.Fields(strings.TrimSpace(s))

	switch len(fields) {
	case 1:
		// A bare integer is a year: resolve to its last day.
		year, err := strconv.Atoi(fields[0])
		if err != nil || year <= 0 {
			return time.Time{}, false
		}
		return date(year, time.December, 31), true

	case 2:
		year, err := strconv.Atoi(fields[1])
		if err != nil || year <= 0 {
			return time.Time{}, false
		}
		// "Q<n> <year>" resolves to the last day of that quarter.
		if q, ok := quarter(fields[0]); ok {
			return lastDayOfMonth(year, time.Month(q*3)), true
		}
		// "<Month> <year>" resolves to the last day of that month.
		if m, ok := months[fields[0]]; ok {
			return lastDayOfMonth(year, m), true
		}
		return time.Time{}, false

	case 3:
		// "<Day> <Mon>, <Year>" or "<Mon> <Day>, <Year>". The day and the
		// month swap positions between locales, so the integer token is the
		// day regardless of where it sits.
		year, err := strconv.Atoi(strings.TrimSuffix(fields[2], ","))
		if err != nil || year <= 0 {
			return time.Time{}, false
		}
		first := strings.TrimSuffix(fields[0], ",")
		second := strings.TrimSuffix(fields[1], ",")

		if m, ok := months[first]; ok {
			if day, err := strconv.Atoi(second); err == nil && validDay(day) {
				return date(year, m, day), true
			}
			return time.Time{}, false
		}
		if m, ok := months[second]; ok {
			if day, err := strconv.Atoi(first); err == nil && validDay(day) {
				return date(year, m, day), true
			}
		}
		return time.Time{}, false
	}

	return time.Time{}, false
}

func quarter(s string) (int, bool) {
	if len(s) != 2 || s[0] != 'Q' || s[1] < '1' || s[1] > '4' {
		return 0, false
	}
	return int(s[1] - '0'), true
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// lastDayOfMonth exploits time.Date's normalization: day zero of the next
// month is the last day of this one.
func lastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}
