package sqlite

import (
	"context"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

type credentialsRepo struct {
	q querier
}

func (r *credentialsRepo) UpsertCredential(ctx context.Context, c domain.Credential) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`,
		c.UserID, c.PasswordHash, c.UpdatedAt,
	)
	return err
}

func (r *credentialsRepo) GetCredential(ctx context.Context, userID string) (domain.Credential, error) {
	var c domain.Credential
	row := r.q.QueryRowContext(ctx, `
		SELECT user_id, password_hash, updated_at FROM credentials WHERE user_id = ?`, userID)
	if err := row.Scan(&c.UserID, &c.PasswordHash, &c.UpdatedAt); err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return c, nil
}

func (r *credentialsRepo) DeleteCredentialForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM credentials WHERE user_id = ?`, userID)
	return err
}

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) DeleteSessionsForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
