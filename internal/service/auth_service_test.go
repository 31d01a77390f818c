package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/config"
	"github.com/spec-kit/incident-service/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *domain.Employee) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)
	employee := &domain.Employee{
		ID:           5,
		Name:         "Dana",
		Surname:      "Smith",
		RoleID:       1,
		RoleName:     domain.RoleAdmin,
		Login:        "dsmith",
		PasswordHash: hash,
	}
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5}}
	svc := NewAuthService(cfg, AuthDependencies{EmployeeRepo: newFakeEmployeeRepo(employee)})
	return svc, employee
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	svc, employee := newAuthFixture(t)

	got, token, err := svc.Login(context.Background(), "dsmith", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, employee.ID, got.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	id, err := claims.EmployeeID()
	require.NoError(t, err)
	assert.Equal(t, employee.ID, id)
}

func TestLoginRejectsUnknownLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "nobody", "s3cret")
	requireDomainError(t, err, "UNAUTHORIZED")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "dsmith", "wrong")
	requireDomainError(t, err, "UNAUTHORIZED")
}

func TestLogoutIgnoresInvalidToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	assert.NoError(t, svc.Logout(context.Background(), "not-a-token"))
}
