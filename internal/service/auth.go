// Package service contains the business logic layer. Services accept plain
// values, enforce the domain rules, and return apperror values; they know
// nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/model"
	"github.com/tahmid/blog-engine/internal/repository"
)

// invalidCredentials is the single user-facing outcome for both an unknown
// email and a wrong password, so login failures reveal nothing about which
// accounts exist.
const invalidCredentials = "invalid email or password"

// AuthService handles registration, credential verification, and
// current-user lookup.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with its injected dependencies.
func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register hashes the password and persists a new user. A duplicate email
// surfaces as apperror.ErrConflict with no partial write; the new user is
// returned ready to be logged in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: registering %s: %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Login verifies email+password and returns the matching user. Unknown email
// and wrong password both yield the same apperror.ErrUnauthorized outcome.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return user, nil
}

// UserByID resolves the session identity to a user record for rendering.
func (s *AuthService) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}
