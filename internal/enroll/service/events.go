package service

import "github.com/sentrang/enroll/internal/enroll/domain"

// Events are post-commit hooks the presentation layer can subscribe to, e.g.
// to invalidate its own caches. They fire strictly after the owning
// transaction commits and never influence the outcome of an operation.
type Events struct {
	InvitationAccepted func(userID string)
	SubmissionApproved func(submissionID, studentID string)
	RoleChanged        func(userID string, from, to domain.Role)
	UserDeleted        func(userID string)
}

func (e Events) invitationAccepted(userID string) {
	if e.InvitationAccepted != nil {
		e.InvitationAccepted(userID)
	}
}

func (e Events) submissionApproved(submissionID, studentID string) {
	if e.SubmissionApproved != nil {
		e.SubmissionApproved(submissionID, studentID)
	}
}

func (e Events) roleChanged(userID string, from, to domain.Role) {
	if e.RoleChanged != nil {
		e.RoleChanged(userID, from, to)
	}
}

func (e Events) userDeleted(userID string) {
	if e.UserDeleted != nil {
		e.UserDeleted(userID)
	}
}
