package services

import (
	"context"
	"fmt"
	"log/slog"

	"guestlist/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendWaitlistOffer sends the time-bounded redemption link using the
// "waitlist_offer" template.
func (s *emailService) SendWaitlistOffer(ctx context.Context, data *domain.WaitlistOfferEmailData) error {
	if data == nil {
		return fmt.Errorf("waitlist offer data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("waitlist_offer", data)
	if err != nil {
		return fmt.Errorf("failed to render waitlist_offer template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send waitlist offer email: %w", err)
	}
	s.logger.Info("waitlist offer email sent", "to", data.Email)
	return nil
}
