package validate

import (
	"regexp"
	"unicode"
)

// Permissive on purpose: a local part, an "@", and a domain with a dot.
// No DNS or deliverability checks.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has a plausible address shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword reports whether password meets the minimum bar: at least
// 8 characters and at least 2 of the 4 character classes (upper, lower,
// digit, other). This is a deliberately weak "medium strength" policy.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasOther bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasOther = true
		}
	}

	variety := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasOther} {
		if ok {
			variety++
		}
	}
	return variety >= 2
}
