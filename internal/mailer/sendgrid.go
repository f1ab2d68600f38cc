package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client     *sendgrid.Client
	sender     string
	senderName string
}

func NewSendGridMailer(apiKey, sender, senderName string) *SendGridMailer {
	return &SendGridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		sender:     sender,
		senderName: senderName,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(m.senderName, m.sender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmailPlainText(from, subject, recipient, body)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send mail: sendgrid status %d", resp.StatusCode)
	}
	return nil
}
