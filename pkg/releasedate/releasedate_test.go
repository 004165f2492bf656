package releasedate

import (
	"testing"
	"time"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		// Bare year
		{"2025", d(2025, time.December, 31), true},
		{"1998", d(1998, time.December, 31), true},

		// Quarters
		{"Q1 2025", d(2025, time.March, 31), true},
		{"Q2 2025", d(2025, time.June, 30), true},
		{"Q3 2025", d(2025, time.September, 30), true},
		{"Q4 2025", d(2025, time.December, 31), true},
		{"Q5 2025", time.Time{}, false},

		// Month + year (full names and abbreviations)
		{"January 2025", d(2025, time.January, 31), true},
		{"February 2024", d(2024, time.February, 29), true},
		{"February 2025", d(2025, time.February, 28), true},
		{"September 2026", d(2026, time.September, 30), true},
		{"Nov 2025", d(2025, time.November, 30), true},

		// Exact dates, both token orders
		{"Jan 4, 2025", d(2025, time.January, 4), true},
		{"4 Jan, 2025", d(2025, time.January, 4), true},
		{"Dec 25, 2026", d(2026, time.December, 25), true},
		{"25 December, 2026", d(2026, time.December, 25), true},
		{"May 1, 2025", d(2025, time.May, 1), true},

		// Placeholders and garbage resolve to unknown, never panic
		{"Coming soon", time.Time{}, false},
		{"To be announced", time.Time{}, false},
		{"TBD", time.Time{}, false},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"-5", time.Time{}, false},
		{"Frog 2025", time.Time{}, false},
		{"Jan banana, 2025", time.Time{}, false},
		{"99 Jan, 2025", time.Time{}, false},
		{"Jan 4, soon", time.Time{}, false},
		{"one two three four", time.Time{}, false},
	}

	for _, c := range cases {
		got, ok := Parse(c.in)
		if ok != c.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
