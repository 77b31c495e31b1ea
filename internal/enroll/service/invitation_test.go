package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/stretchr/testify/require"
)

func TestInvitationIssue(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &InvitationService{Store: st, Hasher: fastHasher}
	ctx := context.Background()
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin)

	t.Run("issues with a one-time token", func(t *testing.T) {
		inv, token, err := svc.Issue(ctx, "Parent@Example.org ", domain.RoleParent, nil, "A Parent", admin.ID)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, "parent@example.org", inv.Email)
		require.Equal(t, domain.RoleParent, inv.Role)
		require.Equal(t, admin.ID, inv.CreatedBy)
		require.Equal(t, domain.InvitationPending, inv.Status(time.Now().UTC()))

		// The raw token is never stored.
		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotEqual(t, token, stored.TokenHash)
	})

	t.Run("allows multiple outstanding invitations per email", func(t *testing.T) {
		_, _, err := svc.Issue(ctx, "dup@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)
		_, _, err = svc.Issue(ctx, "dup@example.org", domain.RoleLeader, nil, "", admin.ID)
		require.NoError(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, _, err := svc.Issue(ctx, "not-an-email", domain.RoleParent, nil, "", admin.ID)
		require.ErrorIs(t, err, ErrValidation)

		_, _, err = svc.Issue(ctx, "user@localhost", domain.RoleParent, nil, "", admin.ID)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, _, err := svc.Issue(ctx, "x@example.org", domain.Role("SUPERUSER"), nil, "", admin.ID)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestInvitationValidate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &InvitationService{Store: st, Hasher: fastHasher}
	ctx := context.Background()
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin)

	t.Run("valid token", func(t *testing.T) {
		inv, token, err := svc.Issue(ctx, "v@example.org", domain.RoleParent, nil, "Vee", admin.ID)
		require.NoError(t, err)

		result, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, TokenValid, result.State)
		require.NotNil(t, result.Invitation)
		require.Equal(t, inv.ID, result.Invitation.ID)
	})

	t.Run("unknown and empty tokens report NOT_FOUND", func(t *testing.T) {
		result, err := svc.Validate(ctx, "no-such-token")
		require.NoError(t, err)
		require.Equal(t, TokenNotFound, result.State)
		require.Nil(t, result.Invitation)

		result, err = svc.Validate(ctx, "")
		require.NoError(t, err)
		require.Equal(t, TokenNotFound, result.State)
	})

	t.Run("used token reports USED", func(t *testing.T) {
		inv, token, err := svc.Issue(ctx, "u@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)
		ok, err := st.Invitations().MarkInvitationUsed(ctx, inv.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)

		result, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, TokenUsed, result.State)
	})

	t.Run("expired wins over used", func(t *testing.T) {
		inv, token, err := svc.Issue(ctx, "e@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		// Lapse the link first, then consume it. Both flags are set; the
		// signup page must see EXPIRED.
		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		ok, err := st.Invitations().RefreshInvitationToken(ctx, inv.ID, stored.TokenHash, time.Now().UTC().Add(-time.Hour))
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = st.Invitations().MarkInvitationUsed(ctx, inv.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)

		result, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, TokenExpired, result.State)
	})
}

func TestInvitationResend(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &InvitationService{Store: st, Hasher: fastHasher}
	ctx := context.Background()
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin)

	t.Run("invalidates the old link", func(t *testing.T) {
		inv, oldToken, err := svc.Issue(ctx, "r@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		resent, newToken, err := svc.Resend(ctx, inv.ID, admin.ID)
		require.NoError(t, err)
		require.Equal(t, inv.ID, resent.ID)
		require.NotEqual(t, oldToken, newToken)

		result, err := svc.Validate(ctx, oldToken)
		require.NoError(t, err)
		require.Equal(t, TokenNotFound, result.State)

		result, err = svc.Validate(ctx, newToken)
		require.NoError(t, err)
		require.Equal(t, TokenValid, result.State)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		_, _, err := svc.Resend(ctx, "missing", admin.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("used invitation cannot be resent", func(t *testing.T) {
		inv, _, err := svc.Issue(ctx, "ru@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)
		ok, err := st.Invitations().MarkInvitationUsed(ctx, inv.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)

		_, _, err = svc.Resend(ctx, inv.ID, admin.ID)
		require.ErrorIs(t, err, ErrInvitationAlreadyUsed)
	})
}

func TestInvitationCancel(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &InvitationService{Store: st, Hasher: fastHasher}
	ctx := context.Background()
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin)

	t.Run("cancelled link stops working", func(t *testing.T) {
		inv, token, err := svc.Issue(ctx, "c@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, inv.ID))

		result, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, TokenNotFound, result.State)

		_, err = st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("used invitation cannot be cancelled", func(t *testing.T) {
		inv, _, err := svc.Issue(ctx, "cu@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)
		ok, err := st.Invitations().MarkInvitationUsed(ctx, inv.ID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)

		require.ErrorIs(t, svc.Cancel(ctx, inv.ID), ErrInvitationAlreadyUsed)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		require.ErrorIs(t, svc.Cancel(ctx, "missing"), ErrNotFound)
	})
}

func TestInvitationAccept(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &InvitationService{Store: st, Hasher: fastHasher}
	ctx := context.Background()
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin)

	t.Run("creates verified account with credential", func(t *testing.T) {
		var accepted string
		svc.Events = Events{InvitationAccepted: func(userID string) { accepted = userID }}
		defer func() { svc.Events = Events{} }()

		inv, token, err := svc.Issue(ctx, "new@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		user, err := svc.Accept(ctx, token, "New Parent", "correct horse battery")
		require.NoError(t, err)
		require.Equal(t, "new@example.org", user.Email)
		require.Equal(t, domain.RoleParent, user.Role)
		require.True(t, user.EmailVerified)
		require.Equal(t, user.ID, accepted)

		cred, err := st.Credentials().GetCredential(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "test-hash:correct horse battery", cred.PasswordHash)

		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.True(t, stored.Used())
	})

	t.Run("second accept fails", func(t *testing.T) {
		_, token, err := svc.Issue(ctx, "once@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, token, "First", "password123")
		require.NoError(t, err)

		_, err = svc.Accept(ctx, token, "Second", "password123")
		require.ErrorIs(t, err, ErrTokenAlreadyUsed)
	})

	t.Run("expired token", func(t *testing.T) {
		inv, token, err := svc.Issue(ctx, "late@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)
		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		ok, err := st.Invitations().RefreshInvitationToken(ctx, inv.ID, stored.TokenHash, time.Now().UTC().Add(-time.Minute))
		require.NoError(t, err)
		require.True(t, ok)

		_, err = svc.Accept(ctx, token, "Late", "password123")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("email already registered", func(t *testing.T) {
		seedUser(t, st, "taken@example.org", domain.RoleParent)
		_, token, err := svc.Issue(ctx, "taken@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, token, "Dup", "password123")
		require.ErrorIs(t, err, ErrEmailAlreadyRegistered)

		// The rejected accept must not burn the token permanently: the whole
		// transaction rolled back, so the invitation is still unused.
		result, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, TokenValid, result.State)
	})

	t.Run("leader with unit gets a profile", func(t *testing.T) {
		unit := "unit-thieu-nien"
		_, token, err := svc.Issue(ctx, "leader@example.org", domain.RoleLeader, &unit, "", admin.ID)
		require.NoError(t, err)

		user, err := svc.Accept(ctx, token, "A Leader", "password123")
		require.NoError(t, err)

		profile, err := st.LeaderProfiles().GetLeaderProfileByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, unit, profile.UnitID)
		require.Equal(t, "A Leader", profile.Name)
	})

	t.Run("leader without unit gets no profile", func(t *testing.T) {
		_, token, err := svc.Issue(ctx, "leader2@example.org", domain.RoleLeader, nil, "", admin.ID)
		require.NoError(t, err)

		user, err := svc.Accept(ctx, token, "Unitless", "password123")
		require.NoError(t, err)

		_, err = st.LeaderProfiles().GetLeaderProfileByUserID(ctx, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("weak password", func(t *testing.T) {
		_, token, err := svc.Issue(ctx, "weak@example.org", domain.RoleParent, nil, "", admin.ID)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, token, "Weak", "short")
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestInvitationAcceptConcurrent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &InvitationService{Store: st, Hasher: fastHasher}
	ctx := context.Background()
	admin := seedUser(t, st, "admin@example.org", domain.RoleAdmin)

	_, token, err := svc.Issue(ctx, "race@example.org", domain.RoleParent, nil, "", admin.ID)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, token, "Racer", "password123")
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrTokenAlreadyUsed)
	}
	require.Equal(t, 1, wins, "exactly one accept may win")

	users, err := st.Users().ListUsersByRole(ctx, domain.RoleParent)
	require.NoError(t, err)
	require.Len(t, users, 1)
}
