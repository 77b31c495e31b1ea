package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

type submissionsRepo struct {
	q querier
}

const submissionColumns = `id, parent_id, details, submission_notes, status, reviewed_by, review_notes, reviewed_at, created_at, updated_at`

func scanSubmission(scan func(dest ...any) error) (domain.Submission, error) {
	var sub domain.Submission
	var details, status string
	var reviewedBy, reviewNotes sql.NullString
	var reviewedAt sql.NullTime
	err := scan(&sub.ID, &sub.ParentID, &details, &sub.SubmissionNotes, &status,
		&reviewedBy, &reviewNotes, &reviewedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return domain.Submission{}, mapNotFound(err)
	}
	sub.Status = domain.SubmissionStatus(status)
	sub.ReviewedBy = mapNullStringPtr(reviewedBy)
	sub.ReviewNotes = mapNullStringPtr(reviewNotes)
	sub.ReviewedAt = mapNullTimePtr(reviewedAt)
	sub.Details, err = unmarshalDetails(details)
	if err != nil {
		return domain.Submission{}, err
	}
	return sub, nil
}

func (r *submissionsRepo) CreateSubmission(ctx context.Context, sub domain.Submission) error {
	details, err := marshalDetails(sub.Details)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO submissions (id, parent_id, details, submission_notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ParentID, details, sub.SubmissionNotes, string(sub.Status), sub.CreatedAt, sub.UpdatedAt,
	)
	return err
}

func (r *submissionsRepo) GetSubmissionByID(ctx context.Context, id string) (domain.Submission, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	return scanSubmission(row.Scan)
}

func (r *submissionsRepo) ReviseSubmission(ctx context.Context, id string, details domain.StudentDetails, notes string) (bool, error) {
	raw, err := marshalDetails(details)
	if err != nil {
		return false, err
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE submissions
		SET details = ?, submission_notes = ?, status = 'REVISED',
		    review_notes = NULL, reviewed_by = NULL, reviewed_at = NULL, updated_at = ?
		WHERE id = ? AND status = 'REJECTED'`,
		raw, notes, time.Now().UTC(), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *submissionsRepo) SetSubmissionReviewed(ctx context.Context, id string, status domain.SubmissionStatus, reviewerID, reviewNotes string, at time.Time) (bool, error) {
	// Guarded on the submission still being reviewable so two concurrent
	// reviewers cannot both win.
	res, err := r.q.ExecContext(ctx, `
		UPDATE submissions
		SET status = ?, reviewed_by = ?, review_notes = NULLIF(?, ''), reviewed_at = ?, updated_at = ?
		WHERE id = ? AND status IN ('PENDING', 'REVISED')`,
		string(status), reviewerID, reviewNotes, at, at, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *submissionsRepo) ListSubmissionsByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+submissionColumns+` FROM submissions WHERE status = ? ORDER BY created_at DESC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func (r *submissionsRepo) ListSubmissionsByParent(ctx context.Context, parentID string) ([]domain.Submission, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+submissionColumns+` FROM submissions WHERE parent_id = ? ORDER BY created_at DESC`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

func (r *submissionsRepo) DeleteSubmissionsForParent(ctx context.Context, parentID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM submissions WHERE parent_id = ?`, parentID)
	return err
}

func collectSubmissions(rows *sql.Rows) ([]domain.Submission, error) {
	var out []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
