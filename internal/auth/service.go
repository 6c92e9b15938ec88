// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/metrics"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store"
	"github.com/tomtom215/moviehub/internal/validation"
)

// Client-facing messages.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgTooManyAttempts    = "Too many login attempts"
	msgInvalidToken       = "Invalid token."
	msgUserNotFound       = "Invalid token. User not found."
)

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"min=2,max=50" msg:"Name must be between 2 and 50 characters"`
	Email    string `json:"email" validate:"required,email" msg:"Please provide a valid email"`
	Password string `json:"password" validate:"min=6" msg:"Password must be at least 6 characters long"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" msg:"Please provide a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  models.AccountSummary `json:"user"`
	Token string                `json:"token"`
}

// Service implements registration, login and token verification.
type Service struct {
	users      store.UserStore
	tokens     *TokenManager
	throttle   *LoginThrottle
	events     events.Publisher
	bcryptCost int
	now        func() time.Time

	// dummyHash is compared against when the email is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewService creates the auth service. pub may be events.Discard.
func NewService(users store.UserStore, tokens *TokenManager, throttle *LoginThrottle, cfg config.SecurityConfig, pub events.Publisher) (*Service, error) {
	dummy, err := HashPassword(uuid.NewString(), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	if throttle == nil {
		throttle = NewLoginThrottle(0)
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		throttle:   throttle,
		events:     pub,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
		dummyHash:  dummy,
	}, nil
}

// Register creates a user account and signs a token for it. Emails are
// unique case-insensitively; the store's unique index settles races.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	if verr := validation.ValidateStruct(&in); verr != nil {
		metrics.RecordAuthAttempt("register", "invalid")
		return nil, verr
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, models.ErrConflict) {
			metrics.RecordAuthAttempt("register", "conflict")
		}
		return nil, err
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuthAttempt("register", "success")
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("user registered")
	s.events.Publish(ctx, events.UserRegistered, u.ID, u.Summary())

	return &AuthResult{User: u.Summary(), Token: token}, nil
}

// Login checks credentials and signs a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = models.NormalizeEmail(in.Email)
	if verr := validation.ValidateStruct(&in); verr != nil {
		metrics.RecordAuthAttempt("login", "invalid")
		return nil, verr
	}

	if !s.throttle.Allow(in.Email) {
		metrics.RecordAuthAttempt("login", "throttled")
		logging.Ctx(ctx).Warn().Msg("login throttled")
		return nil, models.RateLimited(msgTooManyAttempts)
	}

	u, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		_, _ = CheckPassword(s.dummyHash, in.Password)
		metrics.RecordAuthAttempt("login", "failure")
		return nil, models.Unauthorized(msgInvalidCredentials)
	case err != nil:
		return nil, err
	}

	ok, err := CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.RecordAuthAttempt("login", "failure")
		return nil, models.Unauthorized(msgInvalidCredentials)
	}
	s.throttle.Reset(in.Email)

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuthAttempt("login", "success")
	return &AuthResult{User: u.Summary(), Token: token}, nil
}

// Verify validates token and loads its user. The stored user is
// authoritative, so a role change applies from the next request.
func (s *Service) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("token rejected")
		return nil, models.Unauthorized(msgInvalidToken)
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.Unauthorized(msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load token user: %w", err)
	}
	return u, nil
}

// Profile returns the caller's profile.
func (s *Service) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

// EnsureAdmin makes sure the bootstrap admin account exists when one is
// configured. It creates the account, or promotes an existing user, and is
// a no-op on later runs.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.SecurityConfig) error {
	email := models.NormalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}
	log := logging.Ctx(ctx).With().Str("component", "bootstrap").Logger()

	u, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if u.IsAdmin() {
			return nil
		}
		if _, err := s.users.UpdateUserRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		log.Info().Str("user_id", u.ID).Msg("promoted existing user to admin")
		return nil
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("look up admin: %w", err)
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Admin"
	}
	hash, err := HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	admin := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		// Another instance may have won the race.
		if errors.Is(err, models.ErrConflict) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("user_id", admin.ID).Msg("created admin account")
	return nil
}
