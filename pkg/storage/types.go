package storage

// User owns one or more tracked Steam profiles.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Profile is one tracked Steam profile. ArtifactPointer names the storage
// key of the most recent successfully generated calendar document; it is
// empty until the first sync and overwritten, never appended.
//
// LastUpdated is kept in sqlite's datetime text form ("2006-01-02
// 15:04:05") so it can feed straight back into a pagination cursor.
type Profile struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	SteamID         string `json:"steamId"`
	ArtifactPointer string `json:"artifactPointer,omitempty"`
	LastUpdated     string `json:"lastUpdated"`
}

// Cursor is an exclusive keyset cursor over the profile scan. The zero
// value starts from the beginning. Both components come from the last row
// of the previous page; comparing the pair keeps the scan correct when
// concurrent writes shuffle last_updated ordering.
type Cursor struct {
	LastUpdated string
	ID          string
}
