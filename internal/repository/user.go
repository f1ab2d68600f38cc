package repository

import (
	"context"
	"errors"
	"time"

	"auth-service/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert violates the email
	// uniqueness constraint. The store raises it independently of any
	// service-level pre-check.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id int64, t time.Time) error
	SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, email string) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
