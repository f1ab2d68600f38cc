package domain

import "time"

// User represents a registered account. ResetToken and ResetTokenExpiresAt
// are either both nil or both set; they exist only during an active
// password-recovery window.
type User struct {
	ID                  int64
	Email               string
	PasswordHash        string
	CreatedAt           time.Time
	LastLoginAt         *time.Time
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
}
