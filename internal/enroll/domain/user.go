package domain

import "time"

type User struct {
	ID                  string
	Email               string // unique
	Name                string
	Role                Role
	EmailVerified       bool
	ForcePasswordChange bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Credential is the stored password material for a user. Kept in its own
// table so account deletion can cascade it explicitly.
type Credential struct {
	UserID       string
	PasswordHash string // argon2id, PHC encoded
	UpdatedAt    time.Time
}

// Session is an active login session. The engine never creates sessions;
// it only deletes them when the owning user is removed.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
