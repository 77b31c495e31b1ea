package store

import (
	"context"
	"errors"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and it is the engine's unit-of-work boundary: every multi-step
// mutation in the services runs inside a Tx obtained here.
type Store interface {
	Users() Users
	Credentials() Credentials
	Sessions() Sessions
	Invitations() Invitations
	Submissions() Submissions
	Students() Students
	ParentStudentLinks() ParentStudentLinks
	LeaderProfiles() LeaderProfiles
	Notifications() Notifications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used to keep the unique-email invariant friendly
	// (a clear error instead of a raw constraint violation).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRoleFrom conditionally moves a user from an expected role to a
	// new one. Returns false when the row was not in the expected role anymore,
	// which lets callers detect lost races without a separate read.
	UpdateUserRoleFrom(ctx context.Context, userID string, from, to domain.Role) (bool, error)

	// UpdateUserRole sets the role unconditionally (used when the profile
	// lifecycle forces the role in the same transaction).
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) error

	// CountByRole counts users holding role. Must be called inside the same
	// transaction as any write it guards.
	CountByRole(ctx context.Context, role domain.Role) (int, error)

	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// DeleteUser removes only the user row; dependents are deleted explicitly
	// by the caller, ordered before this.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Credentials interface {
	// UpsertCredential stores or replaces the password hash for a user.
	UpsertCredential(ctx context.Context, c domain.Credential) error

	GetCredential(ctx context.Context, userID string) (domain.Credential, error)

	DeleteCredentialForUser(ctx context.Context, userID string) error
}

type Sessions interface {
	// DeleteSessionsForUser revokes all active sessions (user deletion cascade).
	DeleteSessionsForUser(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash looks up by the stored token fingerprint,
	// used or not. Expiry and usage are judged by the caller.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// RefreshInvitationToken swaps token hash and expiry on the same row,
	// only while the invitation is still unused. Returns false if it was
	// already consumed.
	RefreshInvitationToken(ctx context.Context, id, newHash string, expiresAt time.Time) (bool, error)

	// MarkInvitationUsed sets used_at, gated on used_at IS NULL. Returns
	// false when another transaction consumed the invitation first.
	MarkInvitationUsed(ctx context.Context, id string, usedAt time.Time) (bool, error)

	DeleteInvitation(ctx context.Context, id string) error

	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	// DeleteExpiredInvitations removes unused invitations past their expiry
	// (housekeeping; used ones are history and stay).
	DeleteExpiredInvitations(ctx context.Context) error
}

type Submissions interface {
	CreateSubmission(ctx context.Context, sub domain.Submission) error

	GetSubmissionByID(ctx context.Context, id string) (domain.Submission, error)

	// ReviseSubmission replaces the payload and flips REJECTED to REVISED,
	// clearing prior review notes. Gated on status = REJECTED; returns false
	// when the submission was not in that state.
	ReviseSubmission(ctx context.Context, id string, details domain.StudentDetails, notes string) (bool, error)

	// SetSubmissionReviewed records the reviewer's disposition, gated on the
	// submission still being reviewable (PENDING or REVISED). Returns false
	// when a concurrent review got there first.
	SetSubmissionReviewed(ctx context.Context, id string, status domain.SubmissionStatus, reviewerID, reviewNotes string, at time.Time) (bool, error)

	ListSubmissionsByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error)

	ListSubmissionsByParent(ctx context.Context, parentID string) ([]domain.Submission, error)

	// DeleteSubmissionsForParent is the user-deletion cascade variant.
	DeleteSubmissionsForParent(ctx context.Context, parentID string) error
}

type Students interface {
	CreateStudent(ctx context.Context, st domain.Student) error

	GetStudentByID(ctx context.Context, id string) (domain.Student, error)
}

type ParentStudentLinks interface {
	CreateParentStudentLink(ctx context.Context, link domain.ParentStudentLink) error

	ListStudentsForParent(ctx context.Context, parentID string) ([]domain.Student, error)

	// DeleteLinksForParent removes all links owned by a parent (deletion cascade).
	DeleteLinksForParent(ctx context.Context, parentID string) error
}

type LeaderProfiles interface {
	CreateLeaderProfile(ctx context.Context, p domain.LeaderProfile) error

	GetLeaderProfileByID(ctx context.Context, id string) (domain.LeaderProfile, error)

	GetLeaderProfileByUserID(ctx context.Context, userID string) (domain.LeaderProfile, error)

	DeleteLeaderProfile(ctx context.Context, id string) error

	// DeleteLeaderProfileForUser is the user-deletion cascade variant; absent
	// profiles are not an error.
	DeleteLeaderProfileForUser(ctx context.Context, userID string) error
}

type Notifications interface {
	CreateNotification(ctx context.Context, n domain.Notification) error

	ListNotificationsForUser(ctx context.Context, userID string) ([]domain.Notification, error)

	MarkNotificationRead(ctx context.Context, id, userID string) error

	// DeleteNotificationsForUser is the user-deletion cascade variant.
	DeleteNotificationsForUser(ctx context.Context, userID string) error
}
