package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches the lookup, including
	// lookups whose owner does not match.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when a user is created with an email
	// that is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository defines the persistence operations for user records.
// Emails are passed already normalized.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateProfile persists name, bio, avatar and updated_at only.
	UpdateProfile(ctx context.Context, u *entity.User) error
}
