package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auth-service/internal/mailer"
	"auth-service/internal/repository"
	"auth-service/internal/validate"
)

var (
	// ErrInvalidOrExpiredToken covers unknown and timed-out reset tokens alike.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	// ErrEmailDelivery indicates the recovery mail could not be sent. The
	// persisted token remains valid.
	ErrEmailDelivery = errors.New("failed to send recovery email")
)

const resetTokenBytes = 32

// RecoveryService handles the password-reset token lifecycle.
type RecoveryService interface {
	RequestRecovery(ctx context.Context, email string) error
	ConsumeReset(ctx context.Context, resetToken, newPassword string) error
}

type recoveryService struct {
	users    repository.UserRepository
	mail     mailer.Mailer
	baseURL  string
	tokenTTL time.Duration
}

func NewRecoveryService(users repository.UserRepository, mail mailer.Mailer, baseURL string, tokenTTL time.Duration) RecoveryService {
	return &recoveryService{
		users:    users,
		mail:     mail,
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenTTL: tokenTTL,
	}
}

func (s *recoveryService) RequestRecovery(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !validate.IsValidEmail(email) {
		return ErrInvalidEmailFormat
	}

	// Drop any previous token first so at most one is ever live. A missing
	// account is not an error here; a distinct response would reveal which
	// emails are registered.
	if err := s.users.ClearResetToken(ctx, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	resetToken, err := generateResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.tokenTTL)

	if err := s.users.SetResetToken(ctx, email, resetToken, expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, resetToken)
	body := fmt.Sprintf("You requested a password reset. Click the link below to reset your password:\n\n%s", link)
	if err := s.mail.Send(ctx, email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}
	return nil
}

func (s *recoveryService) ConsumeReset(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.GetByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return ErrInvalidOrExpiredToken
	}

	if !validate.IsStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Clears the token pair in the same statement as the hash swap, so a
	// consumed token can never be replayed.
	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
