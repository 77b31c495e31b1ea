package service

import "errors"

// The engine's error taxonomy. Every public operation returns either a typed
// success value or one of these (possibly wrapped with detail); callers must
// switch with errors.Is, never on message text. Anything outside this list is
// an infrastructure failure and surfaces to users as a generic retry prompt.
var (
	// ErrValidation: malformed or missing input; recoverable by correcting it.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStateTransition: the operation is not legal from the entity's
	// current state (e.g. approving an already-approved submission).
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrTokenInvalid: the invitation token is unknown or expired.
	ErrTokenInvalid = errors.New("invitation token is invalid or expired")

	// ErrTokenAlreadyUsed: the invitation token was already consumed.
	ErrTokenAlreadyUsed = errors.New("invitation token has already been used")

	// ErrInvitationAlreadyUsed: a used invitation is immutable history; it can
	// be neither resent nor cancelled.
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")

	// ErrEmailAlreadyRegistered: the invitation's email already has an account.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrSelfModification: an account may never change its own privilege level.
	ErrSelfModification = errors.New("cannot change your own role")

	// ErrSelfDeletion: an account may never delete itself.
	ErrSelfDeletion = errors.New("cannot delete your own account")

	// ErrLastAdmin: the administrator population must never reach zero.
	ErrLastAdmin = errors.New("cannot remove the last administrator")
)
