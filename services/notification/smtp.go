package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"slotwise/config"
)

// SMTPNotificationService sends plain-text mail via unauthenticated SMTP
// (Mailpit-compatible in development, a relay in production).
type SMTPNotificationService struct {
	addr string
	from string
}

// NewSMTPNotificationService builds the sender from the loaded configuration.
func NewSMTPNotificationService() *SMTPNotificationService {
	from := strings.TrimSpace(config.AppConfig.SMTPFrom)
	if from == "" {
		from = "no-reply@slotwise.local"
	}
	return &SMTPNotificationService{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(config.AppConfig.SMTPHost), strings.TrimSpace(config.AppConfig.SMTPPort)),
		from: from,
	}
}

func (s *SMTPNotificationService) Send(to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
