package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	last_login_at DATETIME,
	reset_token TEXT,
	reset_token_expires_at DATETIME
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (email, password_hash, created_at)
VALUES (?, ?, ?)`,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at, last_login_at, reset_token, reset_token_expires_at
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at, last_login_at, reset_token, reset_token_expires_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at, last_login_at, reset_token, reset_token_expires_at
FROM users
WHERE reset_token = ?`,
		token,
	)
	return scanUser(row)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, t time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE users SET last_login_at = ? WHERE id = ?`,
		t.UTC(), id,
	); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// SetResetToken overwrites any prior token for the email, so a user holds at
// most one active reset token. A missing email updates zero rows and is not
// an error.
func (r *UserRepository) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE users SET reset_token = ?, reset_token_expires_at = ? WHERE email = ?`,
		token, expiresAt.UTC(), email,
	); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL WHERE email = ?`,
		email,
	); err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the hash and clears the reset-token pair in a
// single statement.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE users
SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL
WHERE id = ?`,
		hash, id,
	); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user        domain.User
		lastLoginAt sql.NullTime
		resetToken  sql.NullString
		resetExpiry sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&lastLoginAt,
		&resetToken,
		&resetExpiry,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		user.LastLoginAt = &t
	}
	if resetToken.Valid {
		s := resetToken.String
		user.ResetToken = &s
	}
	if resetExpiry.Valid {
		t := resetExpiry.Time
		user.ResetTokenExpiresAt = &t
	}
	return &user, nil
}
