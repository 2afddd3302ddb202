package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender delivers emails through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendSender creates a Resend-backed sender. from must be a
// verified sender address, e.g. "Brain Index <notifications@brainindex.app>".
func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// Send delivers the email and returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email via resend: %w", err)
	}

	s.logger.Info("email_sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("message_id", sent.Id),
	)

	return sent.Id, nil
}

var _ Sender = (*ResendSender)(nil)
