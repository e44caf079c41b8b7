package user

import (
	"context"
)

// Repository is the data access contract for users.
type Repository interface {
	// Create inserts u and sets u.ID.
	// Returns ErrEmailAlreadyExists or ErrActivationCodeTaken on unique violations.
	Create(ctx context.Context, u *User) error

	// FindByEmail returns ErrUserNotFound if no user has that email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	FindByID(ctx context.Context, id int64) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Activate marks the user holding code active and clears the code in one statement.
	// Returns ErrUserNotFound if no user holds a non-empty matching code.
	Activate(ctx context.Context, code string) (*User, error)
}
