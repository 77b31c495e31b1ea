package domain

import "time"

// Invitation is a single-use, time-boxed enrollment token. The raw token is
// handed to the invitee once at issue time; only its fingerprint is stored.
type Invitation struct {
	ID        string
	Email     string
	Name      string // optional display name for the invitee
	Role      Role
	UnitID    *string // set when the invitee should land in a specific unit
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Used reports whether the invitation has been consumed.
func (i Invitation) Used() bool { return i.UsedAt != nil }

// Expired reports whether the invitation's link has lapsed at t.
func (i Invitation) Expired(t time.Time) bool { return !i.ExpiresAt.After(t) }

// InvitationStatus is the derived lifecycle state of an invitation.
// EXPIRED is computed from ExpiresAt, never stored.
type InvitationStatus string

const (
	InvitationPending InvitationStatus = "PENDING"
	InvitationUsed    InvitationStatus = "USED"
	InvitationExpired InvitationStatus = "EXPIRED"
)

// Status derives the lifecycle state at t. A used invitation stays USED even
// after its expiry passes.
func (i Invitation) Status(t time.Time) InvitationStatus {
	switch {
	case i.Used():
		return InvitationUsed
	case i.Expired(t):
		return InvitationExpired
	default:
		return InvitationPending
	}
}
