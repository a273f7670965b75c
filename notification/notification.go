// Package notification tells the operators about review outcomes.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nasermirzaei89/pressroom/contents"
	"gopkg.in/gomail.v2"
)

const DefaultSMTPPort = 587

type MailerConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	To           string
}

// Mailer sends notifications as plain text mail to a fixed mailbox.
type Mailer struct {
	from string
	to   string
	send func(msg ...*gomail.Message) error
}

var _ contents.Notifier = (*Mailer)(nil)

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = DefaultSMTPPort
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &Mailer{
		from: cfg.From,
		to:   cfg.To,
		send: dialer.DialAndSend,
	}
}

func (m *Mailer) buildMessage(subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return msg
}

func (m *Mailer) Notify(ctx context.Context, subject, body string) error {
	err := m.send(m.buildMessage(subject, body))
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	slog.DebugContext(ctx, "notification mail sent", "to", m.to, "subject", subject)

	return nil
}

// LogNotifier only logs notifications. It is used when no SMTP server is configured.
type LogNotifier struct{}

var _ contents.Notifier = LogNotifier{}

func (LogNotifier) Notify(ctx context.Context, subject, body string) error {
	slog.InfoContext(ctx, "notification", "subject", subject, "body", body)

	return nil
}
