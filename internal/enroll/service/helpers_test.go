package service

import (
	"context"
	"testing"
	"time"

	"github.com/sentrang/enroll/internal/enroll/domain"
	"github.com/sentrang/enroll/internal/enroll/store"
	"github.com/sentrang/enroll/internal/enroll/store/drivers/sqlite"
	"github.com/sentrang/enroll/pkg/idx"
	"github.com/stretchr/testify/require"
)

// fastHasher avoids argon2 cost in tests that do not verify passwords.
func fastHasher(password string) (string, error) {
	return "test-hash:" + password, nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, email string, role domain.Role) domain.User {
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
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func validDetails() domain.StudentDetails {
	return domain.StudentDetails{
		Name:        "Nguyễn Văn A",
		DateOfBirth: "2015-04-12",
		Gender:      "MALE",
		UnitID:      "unit-oanh-vu",
	}
}
