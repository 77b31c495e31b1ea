// Package notify is the engine's outbound notification port. The engine only
// decides that and what to notify; delivery is a collaborator behind Sink and
// is always invoked after the owning transaction commits. A failing sink is
// logged and never fails the mutation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/pkg/idx"
)

// Request addresses a message either to explicit users or to everyone
// holding one of the given roles.
type Request struct {
	UserIDs   []string
	Roles     []domain.Role
	Type      domain.NotificationType
	Title     string
	Message   string
	ActionURL string
}

type Sink interface {
	Notify(ctx context.Context, req Request) error
}

// StoreSink persists notifications into the store; the surrounding
// application serves them as the users' in-app inbox.
type StoreSink struct {
	Store store.Store
}

func (s *StoreSink) Notify(ctx context.Context, req Request) error {
	targets := make(map[string]struct{}, len(req.UserIDs))
	for _, id := range req.UserIDs {
		targets[id] = struct{}{}
	}
	for _, role := range req.Roles {
		users, err := s.Store.Users().ListUsersByRole(ctx, role)
		if err != nil {
			return err
		}
		for _, u := range users {
			targets[u.ID] = struct{}{}
		}
	}

	now := time.Now().UTC()
	for userID := range targets {
		n := domain.Notification{
			ID:        idx.New().String(),
			UserID:    userID,
			Type:      req.Type,
			Title:     req.Title,
			Message:   req.Message,
			ActionURL: req.ActionURL,
			CreatedAt: now,
		}
		if err := s.Store.Notifications().CreateNotification(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// LogSink writes notifications to the logger only. Used in dev and tests.
type LogSink struct {
	Logger *slog.Logger
}

func (s *LogSink) Notify(ctx context.Context, req Request) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		"type", req.Type,
		"title", req.Title,
		"user_ids", req.UserIDs,
		"roles", req.Roles,
	)
	return nil
}
