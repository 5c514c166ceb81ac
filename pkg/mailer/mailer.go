package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

// Sender delivers a single HTML message
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

var verificationTmpl = template.Must(template.New("verification").Parse(`<div>
  <h1>Welcome to DevQ&amp;A!</h1>
  <p>Please click the link below to verify your email address:</p>
  <a href="{{.Link}}">{{.Link}}</a>
  <p>This link will expire in {{.Validity}}.</p>
  <p>If you didn't create an account, you can safely ignore this email.</p>
</div>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<div>
  <h1>Password Reset Request</h1>
  <p>Click the link below to reset your password:</p>
  <a href="{{.Link}}">{{.Link}}</a>
  <p>This link will expire in {{.Validity}}.</p>
  <p>If you didn't request a password reset, you can safely ignore this email.</p>
</div>`))

// Mailer renders account emails and hands them to a Sender
type Mailer struct {
	sender          Sender
	baseURL         string
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// New creates a mailer whose links point at baseURL
func New(sender Sender, baseURL string, verificationTTL, resetTTL time.Duration) *Mailer {
	return &Mailer{
		sender:          sender,
		baseURL:         strings.TrimRight(baseURL, "/"),
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

// SendVerification mails the email confirmation link
func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	link := m.baseURL + "/api/verify-email?token=" + url.QueryEscape(token)
	body, err := render(verificationTmpl, link, m.verificationTTL)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, to, "Verify your email for DevQ&A", body); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendPasswordReset mails the reset link
func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	link := m.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	body, err := render(resetTmpl, link, m.resetTTL)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, to, "Reset your DevQ&A password", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func render(tmpl *template.Template, link string, validity time.Duration) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Link     string
		Validity string
	}{Link: link, Validity: humanize(validity)})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
