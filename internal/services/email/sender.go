package email

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a composed email. Returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// LogSender logs emails instead of delivering them. Used when no
// delivery provider is configured, so local development works without
// an API key.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the email and reports success
func (s *LogSender) Send(_ context.Context, to, subject, html string) (string, error) {
	s.logger.Info("email_logged_not_sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("content_length", len(html)),
	)
	return "logged", nil
}

var _ Sender = (*LogSender)(nil)
