package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience. Timestamps are declared TEXT,
	// not DATETIME: the driver converts DATETIME columns to time.Time on
	// scan, which would hand back RFC3339 text that no longer compares
	// equal to the stored "2006-01-02 15:04:05" form the keyset cursor
	// binds against.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id         TEXT PRIMARY KEY,
  email      TEXT NOT NULL UNIQUE,
  created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS profiles (
  id               TEXT PRIMARY KEY,
  user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  steam_id         TEXT NOT NULL,
  artifact_pointer TEXT,
  last_updated     TEXT NOT NULL DEFAULT (datetime('now')),
  UNIQUE(user_id, steam_id)
);
CREATE INDEX IF NOT EXISTS idx_profiles_scan ON profiles(last_updated, id);
CREATE INDEX IF NOT EXISTS idx_profiles_user ON profiles(user_id);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) CreateUser(ctx context.Context, email string) (User, error) {
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx, `INSERT INTO users(id, email) VALUES(?, ?)`, id, email)
	if err != nil {
		return User{}, err
	}
	return d.GetUser(ctx, id)
}

func (d *DB) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	row := d.sql.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE id = ?`, id)
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (d *DB) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, email, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (d *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (d *DB) CreateProfile(ctx context.Context, userID, steamID string) (Profile, error) {
	if _, err := d.GetUser(ctx, userID); err != nil {
		return Profile{}, err
	}
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx, `INSERT INTO profiles(id, user_id, steam_id) VALUES(?, ?, ?)`, id, userID, steamID)
	if err != nil {
		return Profile{}, err
	}
	return d.GetProfile(ctx, id)
}

func (d *DB) GetProfile(ctx context.Context, id string) (Profile, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT id, user_id, steam_id, artifact_pointer, last_updated FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (d *DB) ListProfilesByUser(ctx context.Context, userID string) ([]Profile, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, user_id, steam_id, artifact_pointer, last_updated FROM profiles WHERE user_id = ? ORDER BY last_updated, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// UpdateProfile reassigns a profile's owner and Steam account key.
func (d *DB) UpdateProfile(ctx context.Context, id, userID, steamID string) (Profile, error) {
	res, err := d.sql.ExecContext(ctx, `UPDATE profiles SET user_id = ?, steam_id = ?, last_updated = datetime('now') WHERE id = ?`, userID, steamID, id)
	if err != nil {
		return Profile{}, err
	}
	if err := requireAffected(res); err != nil {
		return Profile{}, err
	}
	return d.GetProfile(ctx, id)
}

func (d *DB) DeleteProfile(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListProfilesPage returns one page of the full profile scan, ordered by
// last_updated ascending so the least recently synced profiles dispatch
// first. The cursor is exclusive keyset pagination on (last_updated, id);
// offset-based paging would skip or repeat rows whenever a concurrent sync
// bumps a profile's last_updated mid-walk.
func (d *DB) ListProfilesPage(ctx context.Context, cur Cursor, limit int) ([]Profile, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid page size %d", limit)
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT id, user_id, steam_id, artifact_pointer, last_updated
FROM profiles
WHERE (last_updated, id) > (?, ?)
ORDER BY last_updated, id
LIMIT ?`, cur.LastUpdated, cur.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// UpdateArtifactPointer records the storage key of a freshly written
// calendar artifact. The caller must have completed the artifact write
// first; a pointer never names a key that does not exist. Bumping
// last_updated sends the profile to the back of the next scan.
func (d *DB) UpdateArtifactPointer(ctx context.Context, profileID, key string) error {
	res, err := d.sql.ExecContext(ctx, `UPDATE profiles SET artifact_pointer = ?, last_updated = datetime('now') WHERE id = ?`, key, profileID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var pointer sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.SteamID, &pointer, &p.LastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.ArtifactPointer = pointer.String
	return p, nil
}

func collectProfiles(rows *sql.Rows) ([]Profile, error) {
	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
