package adapter

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/apusetone/chat-service/internal/pkg/notification/port"
)

type mailgunAPI interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// MailgunSender sends plain-text email through the Mailgun API.
type MailgunSender struct {
	mg   mailgunAPI
	from string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

var _ port.EmailSender = (*MailgunSender)(nil)

func (s *MailgunSender) SendEmail(ctx context.Context, to, subject, body string) error {
	m := s.mg.NewMessage(s.from, subject, body, to)
	_, _, err := s.mg.Send(ctx, m)
	return err
}
