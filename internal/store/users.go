// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createUser = `
INSERT INTO users (email, name, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id, email, name, password_hash, role, failed_logins, locked_until, created_at, updated_at
`

type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Email, arg.Name, arg.PasswordHash, arg.Role)
	return scanUser(row)
}

const getUserByEmail = `
SELECT id, email, name, password_hash, role, failed_logins, locked_until, created_at, updated_at
FROM users WHERE lower(email) = lower($1)
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getUserByID = `
SELECT id, email, name, password_hash, role, failed_logins, locked_until, created_at, updated_at
FROM users WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const recordFailedLogin = `
UPDATE users
SET failed_logins = failed_logins + 1,
    locked_until = CASE WHEN failed_logins + 1 >= $2 THEN now() + $3::interval ELSE locked_until END,
    updated_at = now()
WHERE id = $1
RETURNING failed_logins
`

type RecordFailedLoginParams struct {
	ID           int64
	MaxAttempts  int32
	LockInterval string
}

func (q *Queries) RecordFailedLogin(ctx context.Context, arg RecordFailedLoginParams) (int32, error) {
	var n int32
	err := q.db.QueryRowContext(ctx, recordFailedLogin,
		arg.ID, arg.MaxAttempts, arg.LockInterval).Scan(&n)
	return n, err
}

const resetFailedLogins = `
UPDATE users SET failed_logins = 0, locked_until = NULL, updated_at = now() WHERE id = $1
`

func (q *Queries) ResetFailedLogins(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, resetFailedLogins, id)
	return err
}

const updateUserRole = `
UPDATE users SET role = $2, updated_at = now() WHERE id = $1
RETURNING id, email, name, password_hash, role, failed_logins, locked_until, created_at, updated_at
`

func (q *Queries) UpdateUserRole(ctx context.Context, id int64, role string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, updateUserRole, id, role))
}

const updateUserPassword = `
UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
`

func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := q.db.ExecContext(ctx, updateUserPassword, id, passwordHash)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

const countUsers = `
SELECT count(*) FROM users
`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}

// IsUserLocked reports whether a lockout is active at the given instant.
func IsUserLocked(u User, now time.Time) bool {
	return u.LockedUntil.Valid && u.LockedUntil.Time.After(now)
}

type userScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row userScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.FailedLogins, &u.LockedUntil, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
