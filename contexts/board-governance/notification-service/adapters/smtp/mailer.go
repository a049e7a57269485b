package smtpadapter

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"boardgov/contexts/board-governance/notification-service/ports"
)

// Mailer sends plain-text mail over SMTP with optional AUTH.
type Mailer struct {
	Addr string
	From string
	Auth smtp.Auth
}

func NewMailer(host string, port int, from string, username string, password string) *Mailer {
	mailer := &Mailer{
		Addr: fmt.Sprintf("%s:%d", host, port),
		From: from,
	}
	if username != "" {
		mailer.Auth = smtp.PlainAuth("", username, password, host)
	}
	return mailer
}

func (m *Mailer) Send(ctx context.Context, to string, subject string, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	message := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(m.Addr, m.Auth, m.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

var _ ports.Mailer = (*Mailer)(nil)
