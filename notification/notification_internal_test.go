package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestMailer_Notify(t *testing.T) {
	ctx := context.Background()

	mailer := NewMailer(MailerConfig{
		SMTPHost: "localhost",
		From:     "pressroom@example.com",
		To:       "editors@example.com",
	})

	var (
		from string
		to   []string
		raw  bytes.Buffer
	)

	sender := gomail.SendFunc(func(f string, rcpt []string, msg io.WriterTo) error {
		from = f
		to = rcpt

		_, err := msg.WriteTo(&raw)

		return err
	})

	mailer.send = func(msg ...*gomail.Message) error {
		return gomail.Send(sender, msg...)
	}

	err := mailer.Notify(ctx, "Post Approved 42", "Your post has been approved. by erin")
	require.NoError(t, err)

	require.Equal(t, "pressroom@example.com", from)
	require.Equal(t, []string{"editors@example.com"}, to)
	require.Contains(t, raw.String(), "Subject: Post Approved 42")
	require.Contains(t, raw.String(), "Your post has been approved. by erin")

	t.Run("send failure", func(t *testing.T) {
		mailer.send = func(...*gomail.Message) error {
			return errors.New("connection refused")
		}

		err := mailer.Notify(ctx, "subject", "body")
		require.Error(t, err)
	})
}

func TestLogNotifier(t *testing.T) {
	err := LogNotifier{}.Notify(context.Background(), "subject", "body")
	require.NoError(t, err)
}
