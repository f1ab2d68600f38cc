package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
	"auth-service/internal/token"
	"auth-service/internal/validate"
)

var (
	// ErrMissingEmail indicates the signup request carried no email.
	ErrMissingEmail = errors.New("email is required")
	// ErrMissingPassword indicates the signup request carried no password.
	ErrMissingPassword = errors.New("password is required")
	// ErrInvalidEmailFormat indicates the email failed shape validation.
	ErrInvalidEmailFormat = errors.New("invalid email format")
	// ErrWeakPassword indicates the password failed the strength check.
	ErrWeakPassword = errors.New("password must be at least 8 characters long and include a mix of letters, numbers, or symbols")
	// ErrEmailExists is returned when signing up with an already registered email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers unknown email, empty password, and hash
	// mismatch alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bcryptCost = 10

// AuthOptions carry the behaviors that differ between deployments.
type AuthOptions struct {
	// ValidateEmailFormat gates the signup email-shape check.
	ValidateEmailFormat bool
}

// AuthService handles signup and credential verification.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	issuer *token.Issuer
	opts   AuthOptions
}

func NewAuthService(users repository.UserRepository, issuer *token.Issuer, opts AuthOptions) AuthService {
	return &authService{
		users:  users,
		issuer: issuer,
		opts:   opts,
	}
}

func (s *authService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}
	if s.opts.ValidateEmailFormat && !validate.IsValidEmail(email) {
		return nil, ErrInvalidEmailFormat
	}
	if !validate.IsStrongPassword(password) {
		return nil, ErrWeakPassword
	}

	// Advisory pre-check; the unique constraint in the store is the real
	// backstop against concurrent signups.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if user.PasswordHash == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return "", err
	}

	signed, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	return signed, nil
}

// sanitizeUser strips credential material before the user leaves the service.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:          user.ID,
		Email:       user.Email,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
