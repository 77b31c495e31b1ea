package domain

import "time"

// NotificationType classifies a notification for the reading client.
type NotificationType string

const (
	NotificationSubmissionReceived NotificationType = "SUBMISSION_RECEIVED"
	NotificationSubmissionApproved NotificationType = "SUBMISSION_APPROVED"
	NotificationSubmissionRejected NotificationType = "SUBMISSION_REJECTED"
)

// Notification is a message for a user's in-app inbox.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	ActionURL string
	ReadAt    *time.Time
	CreatedAt time.Time
}
