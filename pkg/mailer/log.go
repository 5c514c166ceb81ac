package mailer

import (
	"context"

	"devqa.backend/pkg/logger"
	"go.uber.org/zap"
)

// LogSender writes messages to the application log instead of delivering
// them. Used in development.
type LogSender struct{}

// Send implements Sender
func (LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	logger.Info(ctx, "Email not delivered (log driver)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", htmlBody),
	)
	return nil
}
