package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	to, subject, body string
	err               error
}

func (c *captureSender) Send(_ context.Context, to, subject, body string) error {
	c.to, c.subject, c.body = to, subject, body
	return c.err
}

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	return f.err
}

func TestMailer_SendVerification(t *testing.T) {
	sender := &captureSender{}
	m := New(sender, "https://devqa.example/", 24*time.Hour, time.Hour)

	require.NoError(t, m.SendVerification(context.Background(), "a@b.co", "abc123"))
	assert.Equal(t, "a@b.co", sender.to)
	assert.Equal(t, "Verify your email for DevQ&A", sender.subject)
	assert.Contains(t, sender.body, `href="https://devqa.example/api/verify-email?token=abc123"`)
	assert.Contains(t, sender.body, "24 hours")
}

func TestMailer_SendPasswordReset(t *testing.T) {
	sender := &captureSender{}
	m := New(sender, "https://devqa.example", 24*time.Hour, time.Hour)

	require.NoError(t, m.SendPasswordReset(context.Background(), "a@b.co", "tok.en"))
	assert.Equal(t, "Reset your DevQ&A password", sender.subject)
	assert.Contains(t, sender.body, "https://devqa.example/reset-password?token=tok.en")
	assert.Contains(t, sender.body, "1 hour.")
}

func TestMailer_SendErrorWrapped(t *testing.T) {
	cause := errors.New("relay down")
	m := New(&captureSender{err: cause}, "http://localhost", time.Hour, time.Hour)

	err := m.SendVerification(context.Background(), "a@b.co", "t")
	assert.ErrorIs(t, err, cause)

	err = m.SendPasswordReset(context.Background(), "a@b.co", "t")
	assert.ErrorIs(t, err, cause)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "1 hour", humanize(time.Hour))
	assert.Equal(t, "24 hours", humanize(24*time.Hour))
	assert.Equal(t, "30 minutes", humanize(30*time.Minute))
	assert.Equal(t, "1.5s", humanize(1500*time.Millisecond))
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := NewSMTPSender("smtp.example", 2525, "u", "p", "noreply@devqa.example")
	s.dialer = d

	require.NoError(t, s.Send(context.Background(), "a@b.co", "Hi", "<p>x</p>"))
	require.Len(t, d.messages, 1)
	assert.Equal(t, []string{"noreply@devqa.example"}, d.messages[0].GetHeader("From"))
	assert.Equal(t, []string{"a@b.co"}, d.messages[0].GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, d.messages[0].GetHeader("Subject"))
}

func TestSMTPSender_SendErrors(t *testing.T) {
	d := &fakeDialer{err: errors.New("dial failed")}
	s := NewSMTPSender("smtp.example", 2525, "u", "p", "noreply@devqa.example")
	s.dialer = d

	assert.Error(t, s.Send(context.Background(), "a@b.co", "Hi", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "a@b.co", "Hi", "x"), context.Canceled)
}

func TestLogSender_Send(t *testing.T) {
	assert.NoError(t, LogSender{}.Send(context.Background(), "a@b.co", "Hi", "x"))
}
