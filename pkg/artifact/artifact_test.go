package artifact

import (
	"context"
	"errors"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("76561198000000000"); got != "wishlists/76561198000000000.ics" {
		t.Errorf("Key = %q", got)
	}
}

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	s := NewFSStore(t.TempDir())
	key := Key("42")

	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before write, got %v", err)
	}

	if err := s.Put(ctx, key, []byte("BEGIN:VCALENDAR")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	data, err := s.Get(ctx, key)
	if err != nil || string(data) != "BEGIN:VCALENDAR" {
		t.Fatalf("Get = %q, %v", data, err)
	}

	// Unconditional overwrite.
	if err := s.Put(ctx, key, []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = s.Get(ctx, key)
	if string(data) != "v2" {
		t.Errorf("overwrite not applied: %q", data)
	}
}
