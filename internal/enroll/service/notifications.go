package service

import (
	"context"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
)

// NotificationService reads a user's in-app inbox.
type NotificationService struct {
	Store store.Store
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.Store.Notifications().ListNotificationsForUser(ctx, userID)
}

// MarkRead marks one of the user's notifications as read. Already-read and
// foreign notifications are a silent no-op, scoped by user id so one user can
// never touch another's inbox.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.Store.Notifications().MarkNotificationRead(ctx, id, userID)
}
