package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
)

type notificationsRepo struct {
	q querier
}

func (r *notificationsRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, action_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.ActionURL, n.CreatedAt,
	)
	return err
}

func (r *notificationsRepo) ListNotificationsForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, type, title, message, action_url, read_at, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.ActionURL, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.ReadAt = mapNullTimePtr(readAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationsRepo) MarkNotificationRead(ctx context.Context, id, userID string) error {
	// Idempotent: already-read or foreign notifications are a no-op.
	_, err := r.q.ExecContext(ctx, `
		UPDATE notifications SET read_at = ? WHERE id = ? AND user_id = ? AND read_at IS NULL`,
		time.Now().UTC(), id, userID,
	)
	return err
}

func (r *notificationsRepo) DeleteNotificationsForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	return err
}
