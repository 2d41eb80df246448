package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/config"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/repository"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. Self-registration is always CLIENT; staff
// roles are provisioned by an admin.
func (s *AuthService) Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	if !role.Valid() {
		role = domain.RoleClient
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, "", time.Time{}, errors.New("username already taken")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates an account and issues a fresh credential.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, errors.New("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
