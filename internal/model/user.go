package model

import "time"

// User represents an account as stored in the `users` table.  A user owns
// exactly one salon (created eagerly at registration or lazily on first
// access) and any number of refresh tokens.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, the subject of access tokens.
//  Username     – display name.
//  PasswordHash – bcrypt hash.  Federated accounts get a hash of a random
//                 password nobody knows.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  The raw token
// is handed to the client once; only its SHA‑256 digest is stored, and
// lookups are exact matches on that digest.  Rows are never deleted:
// logout and rotation flip Revoked, which never goes back to false.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  Revoked   – set on logout or rotation.
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Usable reports whether the token may still be exchanged at instant now.
// Expiry is derived from the clock, never stored.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
