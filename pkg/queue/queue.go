// Package queue carries work items from the dispatcher to the consumer.
// Delivery is at-least-once; the consumer's write path is idempotent, so a
// redelivered item is harmless.
package queue

import (
	"context"
	"sort"
	"sync"
	"time"
)

// WorkItem is the immutable unit of queue delivery: one profile to sync.
type WorkItem struct {
	ProfileID string `json:"profileId"`
	SteamID   string `json:"externalId"`
}

// Queue delivers WorkItems after an optional per-send delay. The dispatcher
// uses the delay to stagger waves so the aggregate request rate against the
// upstream proxy stays within budget.
type Queue interface {
	// Send enqueues one item for delivery no earlier than now+delay.
	Send(ctx context.Context, item WorkItem, delay time.Duration) error
	// Receive returns up to max currently-due items, removing them from
	// the queue.
	Receive(ctx context.Context, max int) ([]WorkItem, error)
}

type memoryEntry struct {
	due  time.Time
	item WorkItem
}

// Memory is an in-process queue used by tests and single-process run mode.
type Memory struct {
	mu      sync.Mutex
	entries []memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Send(ctx context.Context, item WorkItem, delay time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, memoryEntry{due: m.now().Add(delay), item: item})
	return nil
}

func (m *Memory) Receive(ctx context.Context, max int) ([]WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	sort.SliceStable(m.entries, func(i, j int) bool { return m.entries[i].due.Before(m.entries[j].due) })

	var due []WorkItem
	rest := m.entries[:0]
	for _, e := range m.entries {
		if len(due) < max && !e.due.After(now) {
			due = append(due, e.item)
			continue
		}
		rest = append(rest, e)
	}
	m.entries = rest
	return due, nil
}
