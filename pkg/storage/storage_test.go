package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.CreateUser(ctx, "player@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID == "" || u.Email != "player@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}

	users, err := db.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("ListUsers = %v, %v", users, err)
	}

	if _, err := db.CreateUser(ctx, "player@example.com"); err == nil {
		t.Error("duplicate email must be rejected")
	}

	if err := db.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if err := db.DeleteUser(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.CreateUser(ctx, "player@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	p, err := db.CreateProfile(ctx, u.ID, "76561198000000001")
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if p.ArtifactPointer != "" {
		t.Errorf("new profile must have a null artifact pointer, got %q", p.ArtifactPointer)
	}

	if _, err := db.CreateProfile(ctx, "no-such-user", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}

	got, err := db.GetProfile(ctx, p.ID)
	if err != nil || got.SteamID != "76561198000000001" {
		t.Fatalf("GetProfile = %+v, %v", got, err)
	}

	list, err := db.ListProfilesByUser(ctx, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListProfilesByUser = %v, %v", list, err)
	}

	if _, err := db.UpdateProfile(ctx, p.ID, u.ID, "76561198000000002"); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if err := db.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	if _, err := db.GetProfile(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateArtifactPointer(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, _ := db.CreateUser(ctx, "player@example.com")
	p, _ := db.CreateProfile(ctx, u.ID, "42")

	if err := db.UpdateArtifactPointer(ctx, p.ID, "wishlists/42.ics"); err != nil {
		t.Fatalf("UpdateArtifactPointer failed: %v", err)
	}
	got, err := db.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.ArtifactPointer != "wishlists/42.ics" {
		t.Errorf("pointer = %q", got.ArtifactPointer)
	}

	// Overwritten, never appended.
	if err := db.UpdateArtifactPointer(ctx, p.ID, "wishlists/42.ics"); err != nil {
		t.Fatalf("repeat update failed: %v", err)
	}

	if err := db.UpdateArtifactPointer(ctx, "missing", "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListProfilesPage(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, _ := db.CreateUser(ctx, "player@example.com")
	const total = 7
	for i := 0; i < total; i++ {
		if _, err := db.CreateProfile(ctx, u.ID, "steam-"+string(rune('a'+i))); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
	}

	seen := make(map[string]int)
	var cur Cursor
	pages := 0
	for {
		page, err := db.ListProfilesPage(ctx, cur, 3)
		if err != nil {
			t.Fatalf("ListProfilesPage failed: %v", err)
		}
		if len(page) == 0 {
			break
		}
		pages++
		for _, p := range page {
			seen[p.ID]++
		}
		last := page[len(page)-1]
		cur = Cursor{LastUpdated: last.LastUpdated, ID: last.ID}
		if len(page) < 3 {
			break
		}
	}

	if pages != 3 {
		t.Errorf("expected ceil(7/3)=3 pages, got %d", pages)
	}
	if len(seen) != total {
		t.Errorf("expected %d distinct profiles, got %d", total, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("profile %s visited %d times", id, n)
		}
	}
}

// The keyset cursor binds LastUpdated straight back into a comparison
// against the stored column, so the scanned value must stay in sqlite's
// "2006-01-02 15:04:05" text form. A driver-side conversion to time.Time
// would surface RFC3339 text instead, and every row sharing the boundary
// row's day would sort before the cursor and be skipped.
func TestLastUpdatedKeepsStoredForm(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, _ := db.CreateUser(ctx, "player@example.com")
	p, err := db.CreateProfile(ctx, u.ID, "steam-a")
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	if _, err := time.Parse("2006-01-02 15:04:05", p.LastUpdated); err != nil {
		t.Fatalf("LastUpdated = %q, want sqlite datetime text: %v", p.LastUpdated, err)
	}

	// A cursor built from the scanned value must exclude exactly that row.
	page, err := db.ListProfilesPage(ctx, Cursor{LastUpdated: p.LastUpdated, ID: p.ID}, 10)
	if err != nil {
		t.Fatalf("ListProfilesPage failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("cursor at last row: got %d rows, want 0", len(page))
	}
	page, err = db.ListProfilesPage(ctx, Cursor{}, 10)
	if err != nil || len(page) != 1 {
		t.Fatalf("zero cursor: got %d rows, %v; want 1 row", len(page), err)
	}
}

func TestListProfilesPageInvalidLimit(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.ListProfilesPage(context.Background(), Cursor{}, 0); err == nil {
		t.Error("expected error for non-positive page size")
	}
}
