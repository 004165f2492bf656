// Package consume processes delivered work items: fetch a profile's raw
// wishlist through the proxy, validate it, resolve release dates, build the
// calendar artifact, and write artifact-then-pointer back to storage.
package consume

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wishcal/wishcal/pkg/artifact"
	"github.com/wishcal/wishcal/pkg/ical"
	"github.com/wishcal/wishcal/pkg/queue"
	"github.com/wishcal/wishcal/pkg/releasedate"
	"github.com/wishcal/wishcal/pkg/steam"
	"github.com/wishcal/wishcal/pkg/wishlist"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// WishlistFetcher fetches one profile's raw wishlist payload.
type WishlistFetcher interface {
	FetchWishlist(ctx context.Context, steamID string) ([]byte, error)
}

// PointerUpdater is the slice of the repository the consumer needs.
type PointerUpdater interface {
	UpdateArtifactPointer(ctx context.Context, profileID, key string) error
}

// Config holds everything ProcessBatch needs.
type Config struct {
	Fetcher WishlistFetcher
	Store   artifact.Store
	Repo    PointerUpdater
	Log     Logger // optional; nil = no logging
}

// BatchResult holds the outcome of processing one delivered batch.
type BatchResult struct {
	Synced  []string // profile IDs whose artifact and pointer were updated
	Skipped int      // items skipped on an upstream (soft) failure
	Errors  []error  // hard, item-scoped failures; already logged, never fatal
}

// ProcessBatch processes all items of a delivered batch concurrently. One
// item's failure never prevents its siblings from completing: every error
// is swallowed at the item boundary and converted to a log record plus an
// entry in the result. Re-running a batch with unchanged upstream data is
// idempotent, so at-least-once redelivery is safe.
func ProcessBatch(ctx context.Context, cfg Config, items []queue.WorkItem) *BatchResult {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}

	result := &BatchResult{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, it := range items {
		wg.Add(1)
		go func(item queue.WorkItem) {
			defer wg.Done()
			synced, err := processOne(ctx, cfg, item, log)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Errors = append(result.Errors, err)
			case synced:
				result.Synced = append(result.Synced, item.ProfileID)
			default:
				result.Skipped++
			}
		}(it)
	}
	wg.Wait()

	return result
}

// processOne runs the full pipeline for a single work item. A soft failure
// (upstream fetch) returns (false, nil) after logging; a hard failure
// returns the error for the batch result. Neither touches the profile's
// existing artifact or pointer.
func processOne(ctx context.Context, cfg Config, item queue.WorkItem, log Logger) (bool, error) {
	body, err := cfg.Fetcher.FetchWishlist(ctx, item.SteamID)
	if err != nil {
		var se *steam.StatusError
		if errors.As(err, &se) {
			log.Warnf("skipping %s: upstream status %d: %s", item.SteamID, se.StatusCode, se.Body)
		} else {
			log.Warnf("skipping %s: fetch failed: %v", item.SteamID, err)
		}
		return false, nil
	}

	items, rejected, err := wishlist.ParseBody(body)
	if err != nil {
		log.Warnf("wishlist for %s: %v", item.SteamID, err)
		return false, fmt.Errorf("wishlist for %s: %w", item.SteamID, err)
	}
	for _, rej := range rejected {
		log.Warnf("dropping item for %s: %v", item.SteamID, rej)
	}

	entries := make([]ical.Entry, 0, len(items))
	for appID, it := range items {
		date, ok := releasedate.Parse(it.ReleaseString)
		if !ok {
			log.Debugf("no resolvable release date for app %s (%q)", appID, it.ReleaseString)
			continue
		}
		entries = append(entries, ical.Entry{
			AppID:       appID,
			Title:       it.Title,
			Description: it.ReviewSummary,
			Date:        date,
		})
	}

	doc, err := ical.Build(item.SteamID, entries)
	if err != nil {
		log.Warnf("building calendar for %s: %v", item.SteamID, err)
		return false, fmt.Errorf("building calendar for %s: %w", item.SteamID, err)
	}

	// Write the artifact before touching the pointer so the pointer can
	// never name a missing object. A crash in between leaves a stale but
	// valid pointer; the next successful sync overwrites both.
	key := artifact.Key(item.SteamID)
	if err := cfg.Store.Put(ctx, key, []byte(doc)); err != nil {
		log.Errorf("writing artifact for %s: %v", item.SteamID, err)
		return false, fmt.Errorf("writing artifact for %s: %w", item.SteamID, err)
	}
	if err := cfg.Repo.UpdateArtifactPointer(ctx, item.ProfileID, key); err != nil {
		log.Errorf("updating pointer for profile %s: %v", item.ProfileID, err)
		return false, fmt.Errorf("updating pointer for profile %s: %w", item.ProfileID, err)
	}

	log.Infof("synced wishlist for %s: %d of %d items have release dates", item.SteamID, len(entries), len(items))
	return true, nil
}
