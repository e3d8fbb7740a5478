package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/happenlist/happenlist/internal/auth"
	"github.com/happenlist/happenlist/internal/util"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

var defaultCategories = []string{
	"Music",
	"Theatre",
	"Art",
	"Food & Drink",
	"Sports",
	"Family",
	"Nightlife",
	"Workshops",
	"Markets",
	"Community",
}

// Seed creates initial data in the database.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	for _, name := range defaultCategories {
		if _, err := queries.CreateCategory(ctx, name, util.Slugify(name)); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}

	// Check if admin user already exists
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	// Hash the default password
	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		Name:         DefaultAdminName,
		PasswordHash: passwordHash,
		Role:         "admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}
