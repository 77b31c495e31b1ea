package domain

import "time"

// SubmissionStatus is the review state of a parent-authored registration.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionRevised  SubmissionStatus = "REVISED"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Reviewable reports whether a reviewer may still act on the submission.
func (s SubmissionStatus) Reviewable() bool {
	return s == SubmissionPending || s == SubmissionRevised
}

// StudentDetails is the payload a parent submits for a child registration.
// It becomes the canonical Student record on approval.
type StudentDetails struct {
	Name        string  `json:"name"`
	DharmaName  *string `json:"dharmaName,omitempty"`
	DateOfBirth string  `json:"dateOfBirth"` // ISO date (YYYY-MM-DD)
	Gender      string  `json:"gender"`
	UnitID      string  `json:"unitId"`
	ClassID     *string `json:"classId,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// Submission is a parent-authored child registration awaiting disposition.
type Submission struct {
	ID              string
	ParentID        string
	Details         StudentDetails
	SubmissionNotes string
	Status          SubmissionStatus
	ReviewedBy      *string
	ReviewNotes     *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
