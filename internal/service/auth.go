// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/happenlist/happenlist/internal/auth"
	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
)

// Account lockout policy. The counter and lock live in the users table so
// a restart does not forgive an attacker.
const (
	maxFailedLogins   = 5
	lockoutInterval   = "15 minutes"
	minPasswordLength = 8
)

// AuthService handles registration and login.
type AuthService struct {
	queries *store.Queries
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{queries: store.New(db)}
}

// Register creates a new user account with the "user" role.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return store.User{}, fmt.Errorf("invalid email address")
	}
	if len(password) < minPasswordLength {
		return store.User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err != nil {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials. Repeated failures lock the account for a
// fixed interval; a bad email and a bad password return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn comparable time so a missing account is not
			// distinguishable by response latency.
			_, _ = auth.CheckPassword(password, dummyHash)
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, fmt.Errorf("get user: %w", err)
	}

	if store.IsUserLocked(user, time.Now()) {
		return store.User{}, ErrAccountLocked
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		attempts, recErr := s.queries.RecordFailedLogin(ctx, store.RecordFailedLoginParams{
			ID:           user.ID,
			MaxAttempts:  maxFailedLogins,
			LockInterval: lockoutInterval,
		})
		if recErr != nil {
			slog.Error("failed to record login failure", "user_id", user.ID, "error", recErr)
		} else if attempts >= maxFailedLogins {
			slog.Warn("account locked after failed logins",
				"user_id", user.ID, "attempts", attempts)
		}
		return store.User{}, ErrInvalidCredentials
	}

	if err := s.queries.ResetFailedLogins(ctx, user.ID); err != nil {
		slog.Error("failed to reset login counter", "user_id", user.ID, "error", err)
	}

	// Transparently upgrade hashes produced under older parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, user.ID, newHash); err != nil {
				slog.Error("failed to rehash password", "user_id", user.ID, "error", err)
			}
		}
	}

	return user, nil
}

// dummyHash is a throwaway argon2id hash used to equalize timing when the
// email does not exist.
var dummyHash = func() string {
	h, err := auth.HashPassword("timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()
