package email

import (
	"context"

	"github.com/resend/resend-go/v2"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
)

// Sender delivers transactional emails. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type resendSender struct {
	client *resend.Client
	from   string
	logger *logger.Logger
}

// NewSender creates a Sender backed by Resend. When email is disabled in
// config a no-op sender is returned so callers never need a nil check.
func NewSender(cfg *config.Configuration, log *logger.Logger) Sender {
	if !cfg.Email.Enabled || cfg.Email.ResendAPIKey == "" {
		return &noopSender{logger: log}
	}
	return &resendSender{
		client: resend.NewClient(cfg.Email.ResendAPIKey),
		from:   cfg.Email.FromAddress,
		logger: log,
	}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to send email").
			WithReportableDetails(map[string]any{"to": to, "subject": subject}).
			Mark(ierr.ErrHTTPClient)
	}

	s.logger.Debugw("email sent", "email_id", sent.Id, "to", to, "subject", subject)
	return nil
}

type noopSender struct {
	logger *logger.Logger
}

func (s *noopSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Debugw("email disabled, dropping message", "to", to, "subject", subject)
	return nil
}
