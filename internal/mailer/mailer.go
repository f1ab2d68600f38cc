// Package mailer delivers outbound application mail.
package mailer

import "context"

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
