package domain

import "time"

// Student is the canonical record materialized by an approved submission.
type Student struct {
	ID          string
	Name        string
	DharmaName  *string
	DateOfBirth string // ISO date (YYYY-MM-DD)
	Gender      string
	UnitID      string
	ClassID     *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParentStudentLink ties a parent account to a student record.
// Unique per (ParentID, StudentID) pair.
type ParentStudentLink struct {
	ParentID  string
	StudentID string
	Relation  string
	CreatedAt time.Time
}
