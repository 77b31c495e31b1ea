package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/pkg/idx"
	"github.com/sentrang/enroll/pkg/slogx"
)

// AccountService owns role transitions, the leader profile lifecycle, and
// user deletion. The invariant it defends everywhere: the system never ends a
// transaction with zero ADMIN users.
type AccountService struct {
	Store  store.Store
	Events Events
}

// ChangeRole moves a user to a new role. Actors may not change their own
// role, and the last remaining ADMIN cannot be demoted.
func (s *AccountService) ChangeRole(ctx context.Context, actorID, userID string, to domain.Role) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if !to.Valid() {
		return domain.User{}, fmt.Errorf("%w: unknown role", ErrValidation)
	}
	if actorID == userID {
		return domain.User{}, ErrSelfModification
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Role == to {
			return nil
		}

		if user.Role == domain.RoleAdmin {
			if err := requireAnotherAdmin(ctx, tx); err != nil {
				return err
			}
		}

		// Conditional on the role we just read, so two concurrent demotions
		// of different admins cannot both slip past the count above.
		ok, err := tx.Users().UpdateUserRoleFrom(ctx, userID, user.Role, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: role changed concurrently", ErrInvalidStateTransition)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	if user.Role != to {
		from := user.Role
		user.Role = to
		log.Info("user role changed",
			slog.String("user_id", userID),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
		s.Events.roleChanged(userID, from, to)
	}

	return user, nil
}

// CreateLeaderProfile creates the extended leader record and forces the
// owning user to LEADER in the same transaction, so the two can never be
// observed out of step.
func (s *AccountService) CreateLeaderProfile(ctx context.Context, userID string, p domain.LeaderProfile) (domain.LeaderProfile, error) {
	log := slogx.FromContext(ctx)

	p.Name = strings.TrimSpace(p.Name)
	p.UnitID = strings.TrimSpace(p.UnitID)
	if p.Name == "" {
		return domain.LeaderProfile{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.UnitID == "" {
		return domain.LeaderProfile{}, fmt.Errorf("%w: unit is required", ErrValidation)
	}

	now := time.Now().UTC()
	p.ID = idx.New().String()
	p.UserID = userID
	if p.Status == "" {
		p.Status = "ACTIVE"
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if _, err := tx.LeaderProfiles().GetLeaderProfileByUserID(ctx, userID); err == nil {
			return fmt.Errorf("%w: user already has a leader profile", ErrValidation)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// Forcing the role to LEADER counts as a demotion for an admin.
		if user.Role == domain.RoleAdmin {
			if err := requireAnotherAdmin(ctx, tx); err != nil {
				return err
			}
		}

		if err := tx.LeaderProfiles().CreateLeaderProfile(ctx, p); err != nil {
			return err
		}
		if user.Role != domain.RoleLeader {
			if err := tx.Users().UpdateUserRole(ctx, userID, domain.RoleLeader); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.LeaderProfile{}, err
	}

	log.Info("leader profile created",
		slog.String("profile_id", p.ID),
		slog.String("user_id", userID),
	)
	return p, nil
}

// DeleteLeaderProfile removes the profile and reverts the owning user to
// PARENT in the same transaction.
func (s *AccountService) DeleteLeaderProfile(ctx context.Context, profileID string) error {
	log := slogx.FromContext(ctx)

	var userID string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.LeaderProfiles().GetLeaderProfileByID(ctx, profileID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		userID = p.UserID

		user, err := tx.Users().GetUserByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleAdmin {
			if err := requireAnotherAdmin(ctx, tx); err != nil {
				return err
			}
		}

		if err := tx.LeaderProfiles().DeleteLeaderProfile(ctx, profileID); err != nil {
			return err
		}
		return tx.Users().UpdateUserRole(ctx, p.UserID, domain.RoleParent)
	})
	if err != nil {
		return err
	}

	log.Info("leader profile deleted",
		slog.String("profile_id", profileID),
		slog.String("user_id", userID),
	)
	return nil
}

// DeleteUser removes a user and everything hanging off them: student links,
// leader profile, sessions, credentials, notifications, and submissions.
// Actors may not delete themselves, and the last ADMIN cannot be deleted.
func (s *AccountService) DeleteUser(ctx context.Context, actorID, userID string) error {
	log := slogx.FromContext(ctx)

	if actorID == userID {
		return ErrSelfDeletion
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Role == domain.RoleAdmin {
			if err := requireAnotherAdmin(ctx, tx); err != nil {
				return err
			}
		}

		// Dependents first, then the user row. Students themselves survive;
		// only the parent's links to them go.
		if err := tx.ParentStudentLinks().DeleteLinksForParent(ctx, userID); err != nil {
			return err
		}
		if err := tx.LeaderProfiles().DeleteLeaderProfileForUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Sessions().DeleteSessionsForUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Credentials().DeleteCredentialForUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Notifications().DeleteNotificationsForUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Submissions().DeleteSubmissionsForParent(ctx, userID); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	log.Info("user deleted", slog.String("user_id", userID))
	s.Events.userDeleted(userID)
	return nil
}

// GetUser fetches a single user.
func (s *AccountService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// ListUsersByRole returns all users holding role.
func (s *AccountService) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", ErrValidation)
	}
	return s.Store.Users().ListUsersByRole(ctx, role)
}

// requireAnotherAdmin fails with ErrLastAdmin unless at least two ADMIN users
// exist. Must run inside the transaction that performs the guarded write.
func requireAnotherAdmin(ctx context.Context, tx store.Tx) error {
	n, err := tx.Users().CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}
