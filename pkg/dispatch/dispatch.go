// Package dispatch walks the full set of tracked profiles in pages and
// fans each page out onto the work queue as one "wave". Waves are delayed
// progressively so queue-side delivery stays within the upstream proxy's
// rate budget.
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wishcal/wishcal/pkg/queue"
	"github.com/wishcal/wishcal/pkg/storage"
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

// ProfilePager is the slice of the repository the dispatcher needs.
type ProfilePager interface {
	ListProfilesPage(ctx context.Context, cur storage.Cursor, limit int) ([]storage.Profile, error)
}

// Dispatcher enqueues one WorkItem per tracked profile on each tick.
type Dispatcher struct {
	Repo      ProfilePager
	Queue     queue.Queue
	BatchSize int
	Delay     time.Duration // delivery delay step between waves
	Log       Logger        // optional; nil = no logging
}

// ParseTickConfig validates the two numeric tick settings. Both must be
// positive integers; anything else fails the tick before any dispatch.
func ParseTickConfig(batchSize, delaySeconds string) (int, time.Duration, error) {
	size, err := strconv.Atoi(batchSize)
	if err != nil || size <= 0 {
		return 0, 0, fmt.Errorf("batchSize must be a positive integer, got %q", batchSize)
	}
	delay, err := strconv.Atoi(delaySeconds)
	if err != nil || delay <= 0 {
		return 0, 0, fmt.Errorf("delaySeconds must be a positive integer, got %q", delaySeconds)
	}
	return size, time.Duration(delay) * time.Second, nil
}

// RunTick scans all profiles ordered by last_updated ascending in pages of
// BatchSize, enqueuing each page's items with a delivery delay of
// wave*Delay. A page read or enqueue failure aborts the remainder of the
// tick; waves already sent stand, and un-dispatched profiles are picked up
// by the next tick since their last_updated still sorts them first.
// Returns the number of items enqueued.
func (d *Dispatcher) RunTick(ctx context.Context) (int, error) {
	log := d.Log
	if log == nil {
		log = nopLogger{}
	}
	if d.BatchSize <= 0 {
		return 0, fmt.Errorf("invalid batch size %d", d.BatchSize)
	}

	var cur storage.Cursor
	total := 0
	for wave := 0; ; wave++ {
		page, err := d.Repo.ListProfilesPage(ctx, cur, d.BatchSize)
		if err != nil {
			return total, fmt.Errorf("reading profile page %d: %w", wave, err)
		}
		if len(page) == 0 {
			break
		}

		delay := time.Duration(wave) * d.Delay
		for _, p := range page {
			item := queue.WorkItem{ProfileID: p.ID, SteamID: p.SteamID}
			if err := d.Queue.Send(ctx, item, delay); err != nil {
				return total, fmt.Errorf("enqueuing profile %s in wave %d: %w", p.ID, wave, err)
			}
			total++
		}
		log.Debugf("dispatched wave %d: %d profiles, delivery delay %s", wave, len(page), delay)

		last := page[len(page)-1]
		cur = storage.Cursor{LastUpdated: last.LastUpdated, ID: last.ID}
		if len(page) < d.BatchSize {
			break
		}
	}

	log.Infof("dispatched %d work items", total)
	return total, nil
}
