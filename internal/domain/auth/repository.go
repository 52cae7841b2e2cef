package auth

import (
	"context"

	"stockpilot/internal/core/id"
)

// Repository defines persistence operations for users.
type Repository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id id.ID) (*User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks email uniqueness.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
