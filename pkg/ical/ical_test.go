package ical

import (
	"strings"
	"testing"
	"time"
)

func TestBuildEmpty(t *testing.T) {
	doc, err := Build("123", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(doc, "BEGIN:VCALENDAR") || !strings.Contains(doc, "END:VCALENDAR") {
		t.Fatalf("not a calendar document:\n%s", doc)
	}
	if strings.Contains(doc, "BEGIN:VEVENT") {
		t.Error("empty entry set must produce zero events")
	}
}

func TestBuildEvents(t *testing.T) {
	entries := []Entry{
		{AppID: "730", Title: "Counter-Strike 2", Description: "Very Positive", Date: time.Date(2025, 9, 27, 0, 0, 0, 0, time.UTC)},
		{AppID: "440", Title: "Team Fortress 2", Description: "Overwhelmingly Positive", Date: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)},
	}
	doc, err := Build("123", entries)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := strings.Count(doc, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	for _, want := range []string{
		"SUMMARY:Counter-Strike 2",
		"DESCRIPTION:Very Positive",
		"CATEGORIES:Game release",
		"UID:123-440@wishcal",
		"DTSTART;VALUE=DATE:20251010",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}

	// Events are ordered by app ID regardless of input order.
	if strings.Index(doc, "UID:123-440@wishcal") > strings.Index(doc, "UID:123-730@wishcal") {
		t.Error("events not sorted by app ID")
	}
}

func TestBuildDeterministic(t *testing.T) {
	entries := []Entry{
		{AppID: "10", Title: "A", Description: "d", Date: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)},
		{AppID: "20", Title: "B", Description: "e", Date: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
	}
	first, err := Build("42", entries)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := Build("42", []Entry{entries[1], entries[0]})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if first != second {
		t.Error("identical input must produce a byte-identical document")
	}
}

func TestBuildRejectsZeroDate(t *testing.T) {
	if _, err := Build("42", []Entry{{AppID: "1", Title: "A"}}); err == nil {
		t.Error("expected error for entry without a resolved date")
	}
}
