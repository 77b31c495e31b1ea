package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/notify"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/pkg/idx"
	"github.com/sentrang/enroll/pkg/slogx"
)

// SubmissionService routes parent-authored child registrations through the
// review state machine and, on approval, materializes the canonical Student
// record. The approve path is the one place in the application that must
// guarantee cross-table atomicity.
type SubmissionService struct {
	Store  store.Store
	Sink   notify.Sink
	Events Events
}

// Submit validates the payload and creates a PENDING submission. All
// administrators are notified after the insert.
func (s *SubmissionService) Submit(
	ctx context.Context,
	parentID string,
	details domain.StudentDetails,
	notes string,
) (domain.Submission, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate payload shape.
	if err := validateStudentDetails(&details); err != nil {
		return domain.Submission{}, err
	}

	// 2. The submitting parent must exist.
	if _, err := s.Store.Users().GetUserByID(ctx, parentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Submission{}, fmt.Errorf("%w: parent", ErrNotFound)
		}
		return domain.Submission{}, err
	}

	now := time.Now().UTC()
	sub := domain.Submission{
		ID:              idx.New().String(),
		ParentID:        parentID,
		Details:         details,
		SubmissionNotes: strings.TrimSpace(notes),
		Status:          domain.SubmissionPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 3. Single insert; no multi-statement transaction needed here.
	if err := s.Store.Submissions().CreateSubmission(ctx, sub); err != nil {
		log.Error("failed to create submission",
			slog.String("submission_id", sub.ID),
			slog.Any("error", err),
		)
		return domain.Submission{}, err
	}

	log.Info("registration submitted",
		slog.String("submission_id", sub.ID),
		slog.String("parent_id", parentID),
	)

	s.notifyAfterCommit(ctx, notify.Request{
		Roles:     []domain.Role{domain.RoleAdmin},
		Type:      domain.NotificationSubmissionReceived,
		Title:     "New student registration",
		Message:   fmt.Sprintf("A registration for %s is awaiting review.", details.Name),
		ActionURL: "/admin/submissions/" + sub.ID,
	})

	return sub, nil
}

// Resubmit replaces a REJECTED submission's payload and moves it to REVISED.
// Only the owning parent may resubmit, and only from REJECTED.
func (s *SubmissionService) Resubmit(
	ctx context.Context,
	submissionID string,
	parentID string,
	details domain.StudentDetails,
	notes string,
) (domain.Submission, error) {
	log := slogx.FromContext(ctx)

	if err := validateStudentDetails(&details); err != nil {
		return domain.Submission{}, err
	}

	var sub domain.Submission
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		sub, err = tx.Submissions().GetSubmissionByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Submissions are owned by their parent; anyone else sees nothing.
		if sub.ParentID != parentID {
			return ErrNotFound
		}
		if sub.Status != domain.SubmissionRejected {
			return fmt.Errorf("%w: cannot resubmit from %s", ErrInvalidStateTransition, sub.Status)
		}

		ok, err := tx.Submissions().ReviseSubmission(ctx, sub.ID, details, strings.TrimSpace(notes))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: cannot resubmit from %s", ErrInvalidStateTransition, sub.Status)
		}

		sub.Details = details
		sub.SubmissionNotes = strings.TrimSpace(notes)
		sub.Status = domain.SubmissionRevised
		sub.ReviewNotes = nil
		sub.ReviewedBy = nil
		sub.ReviewedAt = nil
		return nil
	})
	if err != nil {
		return domain.Submission{}, err
	}

	log.Info("registration resubmitted", slog.String("submission_id", sub.ID))

	s.notifyAfterCommit(ctx, notify.Request{
		Roles:     []domain.Role{domain.RoleAdmin},
		Type:      domain.NotificationSubmissionReceived,
		Title:     "Revised student registration",
		Message:   fmt.Sprintf("The registration for %s was revised and is awaiting review.", details.Name),
		ActionURL: "/admin/submissions/" + sub.ID,
	})

	return sub, nil
}

// Approve materializes the canonical Student, links it to the submitting
// parent, and closes the submission, all inside one transaction. A partial
// failure rolls back entirely: the submission is never APPROVED without its
// Student, and no orphan Student survives a failed link insert.
func (s *SubmissionService) Approve(ctx context.Context, submissionID, reviewerID string) error {
	log := slogx.FromContext(ctx)

	now := time.Now().UTC()
	var sub domain.Submission
	var studentID string

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		sub, err = tx.Submissions().GetSubmissionByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !sub.Status.Reviewable() {
			return fmt.Errorf("%w: cannot approve from %s", ErrInvalidStateTransition, sub.Status)
		}

		// 1. Canonical student record.
		student := domain.Student{
			ID:          idx.New().String(),
			Name:        sub.Details.Name,
			DharmaName:  sub.Details.DharmaName,
			DateOfBirth: sub.Details.DateOfBirth,
			Gender:      sub.Details.Gender,
			UnitID:      sub.Details.UnitID,
			ClassID:     sub.Details.ClassID,
			Notes:       sub.Details.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Students().CreateStudent(ctx, student); err != nil {
			return err
		}
		studentID = student.ID

		// 2. Parent link.
		if err := tx.ParentStudentLinks().CreateParentStudentLink(ctx, domain.ParentStudentLink{
			ParentID:  sub.ParentID,
			StudentID: student.ID,
			Relation:  "PARENT",
			CreatedAt: now,
		}); err != nil {
			return err
		}

		// 3. Close the submission. Conditional on it still being reviewable,
		// so a concurrent reviewer loses here and the student insert above
		// rolls back with the transaction.
		ok, err := tx.Submissions().SetSubmissionReviewed(ctx, sub.ID, domain.SubmissionApproved, reviewerID, "", now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: submission was reviewed concurrently", ErrInvalidStateTransition)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("registration approved",
		slog.String("submission_id", sub.ID),
		slog.String("student_id", studentID),
		slog.String("reviewed_by", reviewerID),
	)

	s.notifyAfterCommit(ctx, notify.Request{
		UserIDs:   []string{sub.ParentID},
		Type:      domain.NotificationSubmissionApproved,
		Title:     "Registration approved",
		Message:   fmt.Sprintf("The registration for %s has been approved.", sub.Details.Name),
		ActionURL: "/my/students",
	})
	s.Events.submissionApproved(sub.ID, studentID)

	return nil
}

// Reject closes the submission with the reviewer's reason. The reason is
// mandatory so parents always receive actionable feedback.
func (s *SubmissionService) Reject(ctx context.Context, submissionID, reviewerID, reviewNotes string) error {
	log := slogx.FromContext(ctx)

	reviewNotes = strings.TrimSpace(reviewNotes)
	if reviewNotes == "" {
		return fmt.Errorf("%w: a rejection reason is required", ErrValidation)
	}

	now := time.Now().UTC()
	var sub domain.Submission

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		sub, err = tx.Submissions().GetSubmissionByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !sub.Status.Reviewable() {
			return fmt.Errorf("%w: cannot reject from %s", ErrInvalidStateTransition, sub.Status)
		}

		ok, err := tx.Submissions().SetSubmissionReviewed(ctx, sub.ID, domain.SubmissionRejected, reviewerID, reviewNotes, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: submission was reviewed concurrently", ErrInvalidStateTransition)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("registration rejected",
		slog.String("submission_id", sub.ID),
		slog.String("reviewed_by", reviewerID),
	)

	s.notifyAfterCommit(ctx, notify.Request{
		UserIDs:   []string{sub.ParentID},
		Type:      domain.NotificationSubmissionRejected,
		Title:     "Registration rejected",
		Message:   fmt.Sprintf("The registration for %s was rejected: %s", sub.Details.Name, reviewNotes),
		ActionURL: "/my/submissions/" + sub.ID,
	})

	return nil
}

// ListByStatus returns submissions in a given review state, newest first.
func (s *SubmissionService) ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	switch status {
	case domain.SubmissionPending, domain.SubmissionRevised, domain.SubmissionApproved, domain.SubmissionRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status", ErrValidation)
	}
	return s.Store.Submissions().ListSubmissionsByStatus(ctx, status)
}

// ListForParent returns a parent's own submissions, newest first.
func (s *SubmissionService) ListForParent(ctx context.Context, parentID string) ([]domain.Submission, error) {
	return s.Store.Submissions().ListSubmissionsByParent(ctx, parentID)
}

// ListStudentsForParent returns the students linked to a parent.
func (s *SubmissionService) ListStudentsForParent(ctx context.Context, parentID string) ([]domain.Student, error) {
	return s.Store.ParentStudentLinks().ListStudentsForParent(ctx, parentID)
}

// notifyAfterCommit delivers a notification outside any transaction.
// Failures are logged and never propagate; losing a notification must not
// fail the mutation that already committed.
func (s *SubmissionService) notifyAfterCommit(ctx context.Context, req notify.Request) {
	if s.Sink == nil {
		return
	}
	if err := s.Sink.Notify(ctx, req); err != nil {
		slogx.FromContext(ctx).Error("failed to deliver notification",
			slog.String("type", string(req.Type)),
			slog.Any("error", err),
		)
	}
}

func validateStudentDetails(d *domain.StudentDetails) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Gender = strings.TrimSpace(d.Gender)
	d.UnitID = strings.TrimSpace(d.UnitID)

	if d.Name == "" {
		return fmt.Errorf("%w: student name is required", ErrValidation)
	}
	if d.DateOfBirth == "" {
		return fmt.Errorf("%w: date of birth is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", d.DateOfBirth); err != nil {
		return fmt.Errorf("%w: date of birth must be YYYY-MM-DD", ErrValidation)
	}
	if d.Gender == "" {
		return fmt.Errorf("%w: gender is required", ErrValidation)
	}
	if d.UnitID == "" {
		return fmt.Errorf("%w: unit is required", ErrValidation)
	}
	return nil
}
