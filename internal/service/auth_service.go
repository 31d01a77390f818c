package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/config"
	"github.com/spec-kit/incident-service/internal/domain"
	"github.com/spec-kit/incident-service/internal/repository"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// AuthService coordinates employee login and logout.
type AuthService struct {
	employees repository.EmployeeRepository
	tokenMgr  *auth.TokenManager
	denylist  *auth.TokenDenylist
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Denylist     *auth.TokenDenylist
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		employees: deps.EmployeeRepo,
		tokenMgr:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		denylist:  deps.Denylist,
	}
}

// Login authenticates an employee by login and password and issues a JWT
// carrying the role name.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.Employee, string, error) {
	employee, err := s.employees.GetByLogin(ctx, login)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", apperrors.MapError(err)
	}
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized("invalid credentials")
	}
	token, _, err := s.tokenMgr.GenerateToken(employee.ID, employee.RoleName)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	return employee, token, nil
}

// Logout puts the token on the denylist until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		// Already invalid; nothing to revoke.
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
