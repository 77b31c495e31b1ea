package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	enrollhttp "github.com/sentrang/enroll/internal/enroll/http"
	"github.com/sentrang/enroll/internal/enroll/notify"
	"github.com/sentrang/enroll/internal/enroll/service"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/internal/enroll/store/drivers/sqlite"
	"github.com/sentrang/enroll/pkg/enrollsdk"
	"github.com/sentrang/enroll/pkg/httpx"
	"github.com/sentrang/enroll/pkg/idx"
	"github.com/stretchr/testify/require"
)

var sessionSecret = []byte("router-test-secret-0123456789abc")

// testEnv spins up the full HTTP surface over an in-memory store. Each test
// gets its own server so rate limit buckets never leak between tests.
type testEnv struct {
	store  store.Store
	server *httptest.Server
	sdk    *enrollsdk.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &notify.StoreSink{Store: st}

	r := enrollhttp.NewRouter(sessionSecret, "test", st, logger)
	r.InvitationService = &service.InvitationService{
		Store: st,
		Hasher: func(password string) (string, error) {
			return "test-hash:" + password, nil
		},
	}
	r.SubmissionService = &service.SubmissionService{Store: st, Sink: sink}
	r.AccountService = &service.AccountService{Store: st}
	r.NotificationService = &service.NotificationService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		store:  st,
		server: srv,
		sdk:    enrollsdk.NewClient(srv.URL),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string, role domain.Role) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		Name:          "Test " + string(role),
		Role:          role,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
	return u
}

// as returns an sdk client authenticated as the given user.
func (e *testEnv) as(t *testing.T, u domain.User) *enrollsdk.Client {
	t.Helper()

	token, err := httpx.SignSessionToken(sessionSecret, u.ID, string(u.Role), time.Hour)
	require.NoError(t, err)
	return e.sdk.WithToken(token)
}

func requireAPIError(t *testing.T, err error, status int) *enrollsdk.APIError {
	t.Helper()

	var apiErr *enrollsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	return apiErr
}

func TestInvitationEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.as(t, env.seedUser(t, "admin@example.org", domain.RoleAdmin))

	issued, err := admin.IssueInvitation(ctx, enrollsdk.InvitationRequest{
		Email: "Parent@Example.org",
		Name:  "Tran Thi B",
		Role:  "PARENT",
	})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.Equal(t, "parent@example.org", issued.Email)
	require.Equal(t, "PENDING", issued.Status)

	t.Run("listing never echoes tokens", func(t *testing.T) {
		list, err := admin.ListInvitations(ctx)
		require.NoError(t, err)
		require.Len(t, list.Invitations, 1)
		require.Empty(t, list.Invitations[0].Token)
	})

	t.Run("validate reports the invitee", func(t *testing.T) {
		v, err := env.sdk.ValidateInvitation(ctx, issued.Token)
		require.NoError(t, err)
		require.Equal(t, "VALID", v.State)
		require.Equal(t, "parent@example.org", v.Email)
		require.Equal(t, "PARENT", v.Role)
	})

	t.Run("accept creates the account once", func(t *testing.T) {
		user, err := env.sdk.AcceptInvitation(ctx, enrollsdk.AcceptRequest{
			Token:    issued.Token,
			Name:     "Tran Thi B",
			Password: "a-long-enough-password",
		})
		require.NoError(t, err)
		require.Equal(t, "parent@example.org", user.Email)
		require.Equal(t, "PARENT", user.Role)
		require.True(t, user.EmailVerified)

		v, err := env.sdk.ValidateInvitation(ctx, issued.Token)
		require.NoError(t, err)
		require.Equal(t, "USED", v.State)

		_, err = env.sdk.AcceptInvitation(ctx, enrollsdk.AcceptRequest{
			Token:    issued.Token,
			Name:     "Tran Thi B",
			Password: "a-long-enough-password",
		})
		requireAPIError(t, err, http.StatusConflict)
	})

	t.Run("resend rotates the link", func(t *testing.T) {
		second, err := admin.IssueInvitation(ctx, enrollsdk.InvitationRequest{
			Email: "leader@example.org",
			Role:  "LEADER",
		})
		require.NoError(t, err)

		rotated, err := admin.ResendInvitation(ctx, second.ID)
		require.NoError(t, err)
		require.NotEmpty(t, rotated.Token)
		require.NotEqual(t, second.Token, rotated.Token)

		v, err := env.sdk.ValidateInvitation(ctx, second.Token)
		require.NoError(t, err)
		require.Equal(t, "NOT_FOUND", v.State)
	})

	t.Run("cancel kills the link", func(t *testing.T) {
		third, err := admin.IssueInvitation(ctx, enrollsdk.InvitationRequest{
			Email: "cancel-me@example.org",
			Role:  "PARENT",
		})
		require.NoError(t, err)

		require.NoError(t, admin.CancelInvitation(ctx, third.ID))

		v, err := env.sdk.ValidateInvitation(ctx, third.Token)
		require.NoError(t, err)
		require.Equal(t, "NOT_FOUND", v.State)

		err = admin.CancelInvitation(ctx, third.ID)
		requireAPIError(t, err, http.StatusNotFound)
	})

	t.Run("bad issue payload", func(t *testing.T) {
		_, err := admin.IssueInvitation(ctx, enrollsdk.InvitationRequest{
			Email: "not-an-email",
			Role:  "PARENT",
		})
		requireAPIError(t, err, http.StatusBadRequest)
	})
}

func TestSubmissionEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	adminUser := env.seedUser(t, "admin@example.org", domain.RoleAdmin)
	parentUser := env.seedUser(t, "parent@example.org", domain.RoleParent)
	admin := env.as(t, adminUser)
	parent := env.as(t, parentUser)

	details := enrollsdk.StudentDetails{
		Name:        "Nguyễn Văn A",
		DateOfBirth: "2015-04-12",
		Gender:      "MALE",
		UnitID:      "unit-oanh-vu",
	}

	sub, err := parent.SubmitRegistration(ctx, enrollsdk.SubmissionRequest{
		Details: details,
		Notes:   "First time enrolling",
	})
	require.NoError(t, err)
	require.Equal(t, "PENDING", sub.Status)
	require.Equal(t, parentUser.ID, sub.ParentID)

	t.Run("admin sees pending queue, parent does not", func(t *testing.T) {
		list, err := admin.ListSubmissions(ctx, "PENDING")
		require.NoError(t, err)
		require.Len(t, list.Submissions, 1)

		_, err = parent.ListSubmissions(ctx, "PENDING")
		requireAPIError(t, err, http.StatusForbidden)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		err := admin.RejectSubmission(ctx, sub.ID, enrollsdk.RejectRequest{})
		requireAPIError(t, err, http.StatusBadRequest)
	})

	t.Run("reject then resubmit then approve", func(t *testing.T) {
		require.NoError(t, admin.RejectSubmission(ctx, sub.ID, enrollsdk.RejectRequest{
			ReviewNotes: "Date of birth looks wrong",
		}))

		mine, err := parent.ListMySubmissions(ctx)
		require.NoError(t, err)
		require.Len(t, mine.Submissions, 1)
		require.Equal(t, "REJECTED", mine.Submissions[0].Status)
		require.NotNil(t, mine.Submissions[0].ReviewNotes)

		fixed := details
		fixed.DateOfBirth = "2016-04-12"
		revised, err := parent.ResubmitRegistration(ctx, sub.ID, enrollsdk.SubmissionRequest{
			Details: fixed,
		})
		require.NoError(t, err)
		require.Equal(t, "REVISED", revised.Status)
		require.Nil(t, revised.ReviewNotes)

		require.NoError(t, admin.ApproveSubmission(ctx, sub.ID))

		students, err := parent.ListMyStudents(ctx)
		require.NoError(t, err)
		require.Len(t, students.Students, 1)
		require.Equal(t, "Nguyễn Văn A", students.Students[0].Name)
		require.Equal(t, "2016-04-12", students.Students[0].DateOfBirth)
	})

	t.Run("approved submissions are terminal", func(t *testing.T) {
		err := admin.ApproveSubmission(ctx, sub.ID)
		requireAPIError(t, err, http.StatusConflict)

		_, err = parent.ResubmitRegistration(ctx, sub.ID, enrollsdk.SubmissionRequest{Details: details})
		requireAPIError(t, err, http.StatusConflict)
	})

	t.Run("notifications flow to both sides", func(t *testing.T) {
		adminInbox, err := admin.ListNotifications(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, adminInbox.Notifications)

		parentInbox, err := parent.ListNotifications(ctx)
		require.NoError(t, err)
		var approved *enrollsdk.NotificationResponse
		for i := range parentInbox.Notifications {
			if parentInbox.Notifications[i].Type == "SUBMISSION_APPROVED" {
				approved = &parentInbox.Notifications[i]
			}
		}
		require.NotNil(t, approved)
		require.Nil(t, approved.ReadAt)

		require.NoError(t, parent.MarkNotificationRead(ctx, approved.ID))

		parentInbox, err = parent.ListNotifications(ctx)
		require.NoError(t, err)
		for _, n := range parentInbox.Notifications {
			if n.ID == approved.ID {
				require.NotNil(t, n.ReadAt)
			}
		}
	})
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	adminUser := env.seedUser(t, "admin@example.org", domain.RoleAdmin)
	parentUser := env.seedUser(t, "parent@example.org", domain.RoleParent)
	admin := env.as(t, adminUser)

	t.Run("role change round trip", func(t *testing.T) {
		updated, err := admin.ChangeUserRole(ctx, parentUser.ID, enrollsdk.ChangeRoleRequest{Role: "LEADER"})
		require.NoError(t, err)
		require.Equal(t, "LEADER", updated.Role)

		got, err := admin.GetUser(ctx, parentUser.ID)
		require.NoError(t, err)
		require.Equal(t, "LEADER", got.Role)

		_, err = admin.ChangeUserRole(ctx, parentUser.ID, enrollsdk.ChangeRoleRequest{Role: "PARENT"})
		require.NoError(t, err)
	})

	t.Run("self role change forbidden", func(t *testing.T) {
		_, err := admin.ChangeUserRole(ctx, adminUser.ID, enrollsdk.ChangeRoleRequest{Role: "PARENT"})
		apiErr := requireAPIError(t, err, http.StatusForbidden)
		require.Equal(t, "self_modification", apiErr.Code)
	})

	t.Run("leader profile lifecycle", func(t *testing.T) {
		profile, err := admin.CreateLeaderProfile(ctx, parentUser.ID, enrollsdk.LeaderProfileRequest{
			Name:   "Tran Thi B",
			UnitID: "unit-thieu-nam",
		})
		require.NoError(t, err)
		require.Equal(t, parentUser.ID, profile.UserID)
		require.Equal(t, "ACTIVE", profile.Status)

		got, err := admin.GetUser(ctx, parentUser.ID)
		require.NoError(t, err)
		require.Equal(t, "LEADER", got.Role)

		require.NoError(t, admin.DeleteLeaderProfile(ctx, profile.ID))

		got, err = admin.GetUser(ctx, parentUser.ID)
		require.NoError(t, err)
		require.Equal(t, "PARENT", got.Role)
	})

	t.Run("admins cannot remove themselves", func(t *testing.T) {
		err := admin.DeleteUser(ctx, adminUser.ID)
		apiErr := requireAPIError(t, err, http.StatusForbidden)
		require.Equal(t, "self_deletion", apiErr.Code)

		other := env.seedUser(t, "admin2@example.org", domain.RoleAdmin)
		otherClient := env.as(t, other)
		require.NoError(t, otherClient.DeleteUser(ctx, adminUser.ID))
	})

	t.Run("delete user cascades", func(t *testing.T) {
		survivor := env.as(t, env.seedUser(t, "admin3@example.org", domain.RoleAdmin))
		require.NoError(t, survivor.DeleteUser(ctx, parentUser.ID))

		_, err := survivor.GetUser(ctx, parentUser.ID)
		requireAPIError(t, err, http.StatusNotFound)
	})
}

func TestAuthEnforcement(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.as(t, env.seedUser(t, "parent@example.org", domain.RoleParent))

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		_, err := env.sdk.ListInvitations(ctx)
		requireAPIError(t, err, http.StatusUnauthorized)

		_, err = env.sdk.ListNotifications(ctx)
		requireAPIError(t, err, http.StatusUnauthorized)
	})

	t.Run("parents cannot reach admin surface", func(t *testing.T) {
		_, err := parent.ListInvitations(ctx)
		requireAPIError(t, err, http.StatusForbidden)

		_, err = parent.ListUsers(ctx, "")
		requireAPIError(t, err, http.StatusForbidden)

		err = parent.ApproveSubmission(ctx, "some-id")
		requireAPIError(t, err, http.StatusForbidden)
	})

	t.Run("forged tokens are rejected", func(t *testing.T) {
		forged, err := httpx.SignSessionToken([]byte("wrong-secret"), "x", "ADMIN", time.Hour)
		require.NoError(t, err)

		_, err = env.sdk.WithToken(forged).ListInvitations(ctx)
		requireAPIError(t, err, http.StatusUnauthorized)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	live, err := env.sdk.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := env.sdk.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
}
