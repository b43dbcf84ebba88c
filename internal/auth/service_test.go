package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/caddie-pos/caddie-pos/internal/auth"
	"github.com/caddie-pos/caddie-pos/internal/rbac"
	"github.com/caddie-pos/caddie-pos/internal/shared"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := &stubRepo{user: &auth.User{
		ID:           1,
		Email:        "caissier@test.local",
		PasswordHash: hashPassword(t, "motdepasse"),
		Role:         rbac.RoleCashier,
		IsActive:     true,
	}}
	svc := auth.NewService(repo)

	user, err := svc.Authenticate(context.Background(), "caissier@test.local", "motdepasse")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, rbac.RoleCashier, user.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &stubRepo{user: &auth.User{
		ID:           1,
		Email:        "caissier@test.local",
		PasswordHash: hashPassword(t, "motdepasse"),
		IsActive:     true,
	}}
	svc := auth.NewService(repo)

	_, err := svc.Authenticate(context.Background(), "caissier@test.local", "mauvais")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := auth.NewService(&stubRepo{})

	_, err := svc.Authenticate(context.Background(), "inconnu@test.local", "motdepasse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := &stubRepo{user: &auth.User{
		ID:           2,
		Email:        "desactive@test.local",
		PasswordHash: hashPassword(t, "motdepasse"),
		IsActive:     false,
	}}
	svc := auth.NewService(repo)

	_, err := svc.Authenticate(context.Background(), "desactive@test.local", "motdepasse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
