package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/pkg/cryptox"
	"github.com/sentrang/enroll/pkg/idx"
	"github.com/sentrang/enroll/pkg/slogx"
)

// BootstrapAdmin is the configured seed account. Every role transition needs
// an ADMIN actor, so an empty database gets one created on startup.
type BootstrapAdmin struct {
	Email    string
	Name     string
	Password string
}

// EnsureAdmin seeds the bootstrap ADMIN when no users exist yet. The seeded
// account must change its password on first login. A non-empty user table is
// a no-op regardless of whether any admin survives in it.
func EnsureAdmin(ctx context.Context, st store.Store, seed BootstrapAdmin) error {
	log := slogx.FromContext(ctx)

	seed.Email = strings.ToLower(strings.TrimSpace(seed.Email))
	seed.Name = strings.TrimSpace(seed.Name)
	if seed.Email == "" || seed.Name == "" || seed.Password == "" {
		return fmt.Errorf("%w: bootstrap admin requires email, name and password", ErrValidation)
	}

	hash, err := cryptox.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:                  idx.New().String(),
		Email:               seed.Email,
		Name:                seed.Name,
		Role:                domain.RoleAdmin,
		EmailVerified:       true,
		ForcePasswordChange: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created := false
	err = st.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.Credentials().UpsertCredential(ctx, domain.Credential{
			UserID:       user.ID,
			PasswordHash: hash,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return err
	}

	if created {
		log.Info("bootstrap admin created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	}
	return nil
}
