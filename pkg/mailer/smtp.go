package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers mail through an SMTP relay
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender creates a sender for the given relay
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		from:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// Send implements Sender. gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}
