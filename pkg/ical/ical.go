// Package ical turns a profile's resolvable wishlist entries into a single
// iCalendar document with one all-day event per upcoming release.
package ical

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
)

const category = "Game release"

// Entry is one wishlist item whose release string resolved to a concrete
// date. Items without a resolvable date never reach the builder.
type Entry struct {
	AppID       string
	Title       string
	Description string
	Date        time.Time
}

// Build serializes the entries into an ICS document. Events are emitted in
// app-ID order and every generated field (UID, DTSTAMP) is derived from the
// input, so identical input yields a byte-identical document. An empty
// entry set is valid and produces a calendar with zero events.
func Build(steamID string, entries []Entry) (string, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AppID < sorted[j].AppID })

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//wishcal//Steam wishlist calendar//EN")

	for _, e := range sorted {
		if e.Date.IsZero() {
			return "", fmt.Errorf("entry %s has no resolved date", e.AppID)
		}
		day := e.Date.UTC().Truncate(24 * time.Hour)

		event := cal.AddEvent(fmt.Sprintf("%s-%s@wishcal", steamID, e.AppID))
		event.SetDtStampTime(day)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(e.Title)
		event.SetDescription(e.Description)
		event.SetProperty(ics.ComponentPropertyCategories, category)
	}

	return cal.Serialize(), nil
}
