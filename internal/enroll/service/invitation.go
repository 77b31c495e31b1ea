package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/pkg/cryptox"
	"github.com/sentrang/enroll/pkg/idx"
	"github.com/sentrang/enroll/pkg/slogx"
)

// DefaultInvitationTTL is how long a freshly issued (or resent) invitation
// link stays acceptable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// PasswordHasher turns a plaintext password into its stored form. The default
// is argon2id via cryptox; the host application may substitute its own.
type PasswordHasher func(password string) (string, error)

// InvitationService issues, validates and consumes single-use enrollment
// tokens.
type InvitationService struct {
	Store  store.Store
	Hasher PasswordHasher
	TTL    time.Duration
	Events Events
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

func (s *InvitationService) hash(password string) (string, error) {
	if s.Hasher != nil {
		return s.Hasher(password)
	}
	return cryptox.HashPassword(password)
}

// Issue creates a new invitation and returns it together with the raw token.
// The raw token is shown exactly once; only its fingerprint is stored.
// Multiple outstanding invitations per email are permitted.
func (s *InvitationService) Issue(
	ctx context.Context,
	email string,
	role domain.Role,
	unitID *string,
	name string,
	issuedBy string,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return domain.Invitation{}, "", err
	}
	if !role.Valid() {
		return domain.Invitation{}, "", fmt.Errorf("%w: unknown role", ErrValidation)
	}

	// 2. Generate the opaque token.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      role,
		UnitID:    unitID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(s.ttl()),
		CreatedBy: issuedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 3. Persist.
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("role", role.String()),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 4. Return the raw token (not the fingerprint).
	return inv, token, nil
}

// Resend regenerates the token and expiry on the same invitation row, which
// invalidates the previously mailed link. A used invitation cannot be resent.
func (s *InvitationService) Resend(
	ctx context.Context,
	invitationID string,
	actorID string,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	var inv domain.Invitation
	newExpiry := time.Now().UTC().Add(s.ttl())

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		inv, err = tx.Invitations().GetInvitationByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if inv.Used() {
			return ErrInvitationAlreadyUsed
		}

		// Same row, new token. The guard re-checks used_at so a concurrent
		// acceptance between the read and this write loses nothing.
		ok, err := tx.Invitations().RefreshInvitationToken(ctx, inv.ID, cryptox.FingerprintToken(token), newExpiry)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvitationAlreadyUsed
		}

		inv.TokenHash = cryptox.FingerprintToken(token)
		inv.ExpiresAt = newExpiry
		return nil
	})
	if err != nil {
		return domain.Invitation{}, "", err
	}

	log.Info("invitation resent",
		slog.String("invitation_id", inv.ID),
		slog.String("resent_by", actorID),
		slog.Time("expires_at", newExpiry),
	)

	return inv, token, nil
}

// Cancel deletes a pending invitation. A used invitation is immutable history
// and is refused rather than silently destroyed.
func (s *InvitationService) Cancel(ctx context.Context, invitationID string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().GetInvitationByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if inv.Used() {
			return ErrInvitationAlreadyUsed
		}
		return tx.Invitations().DeleteInvitation(ctx, inv.ID)
	})
	if err != nil {
		return err
	}

	log.Info("invitation cancelled", slog.String("invitation_id", invitationID))
	return nil
}

// TokenState is the discriminated result of Validate. An invalid invitation
// is an expected UI branch, not an error.
type TokenState string

const (
	TokenValid    TokenState = "VALID"
	TokenExpired  TokenState = "EXPIRED"
	TokenUsed     TokenState = "USED"
	TokenNotFound TokenState = "NOT_FOUND"
)

// ValidationResult carries the token state plus the invitation when one was
// found, so the signup page can show who the link was meant for.
type ValidationResult struct {
	State      TokenState
	Invitation *domain.Invitation
}

// Validate looks an invitation up by its raw token and reports its state.
// Expiry wins over usage: a used invitation past its expiry reports EXPIRED.
func (s *InvitationService) Validate(ctx context.Context, token string) (ValidationResult, error) {
	if token == "" {
		return ValidationResult{State: TokenNotFound}, nil
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ValidationResult{State: TokenNotFound}, nil
		}
		return ValidationResult{}, err
	}

	switch {
	case inv.Expired(time.Now().UTC()):
		return ValidationResult{State: TokenExpired, Invitation: &inv}, nil
	case inv.Used():
		return ValidationResult{State: TokenUsed, Invitation: &inv}, nil
	default:
		return ValidationResult{State: TokenValid, Invitation: &inv}, nil
	}
}

// Accept consumes a valid invitation and creates the invited account. The
// invitation is re-checked inside the write transaction; the used_at flip is
// a conditional update whose affected-row count gates everything else, so two
// concurrent accepts on the same token cannot both succeed.
func (s *InvitationService) Accept(
	ctx context.Context,
	token string,
	name string,
	password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	name = strings.TrimSpace(name)
	if token == "" {
		return domain.User{}, ErrTokenInvalid
	}
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	// 2. Hash the password before opening the transaction; argon2 is slow.
	passwordHash, err := s.hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 3. Re-validate inside the transaction, not from a stale read.
		inv, err := tx.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenInvalid
			}
			return err
		}
		if inv.Expired(now) {
			return ErrTokenInvalid
		}
		if inv.Used() {
			return ErrTokenAlreadyUsed
		}

		// 4. Consume the token. The conditional update is the race gate:
		// the losing transaction sees zero affected rows and aborts here.
		ok, err := tx.Invitations().MarkInvitationUsed(ctx, inv.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTokenAlreadyUsed
		}

		// 5. The invitation's email must not already have an account.
		_, err = tx.Users().GetUserByEmail(ctx, inv.Email)
		if err == nil {
			return ErrEmailAlreadyRegistered
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 6. Create the account with the invitation's role. The email is
		// proven by following the mailed link.
		user = domain.User{
			ID:            idx.New().String(),
			Email:         inv.Email,
			Name:          name,
			Role:          inv.Role,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}

		if err := tx.Credentials().UpsertCredential(ctx, domain.Credential{
			UserID:       user.ID,
			PasswordHash: passwordHash,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}

		// 7. A leader invited into a unit gets a profile in the same
		// transaction. Without a unit the user is a LEADER without a
		// profile, which is a legal state corrected later.
		if inv.Role == domain.RoleLeader && inv.UnitID != nil {
			profile := domain.LeaderProfile{
				ID:        idx.New().String(),
				UserID:    user.ID,
				UnitID:    *inv.UnitID,
				Name:      name,
				Status:    "ACTIVE",
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.LeaderProfiles().CreateLeaderProfile(ctx, profile); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("invitation accepted",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)

	s.Events.invitationAccepted(user.ID)

	return user, nil
}

// List returns all invitations, newest first. Status is derived per row.
func (s *InvitationService) List(ctx context.Context) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListInvitations(ctx)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	// ParseAddress accepts bare local parts like "a@b"; require a dotted host.
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	return nil
}
