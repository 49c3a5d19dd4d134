package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WaitlistOfferEmailData holds data for the waitlist offer email sent to a
// guest when capacity frees up.
type WaitlistOfferEmailData struct {
	Name        string
	Email       string
	EventName   string
	RedeemURL   string
	ExpiresAt   time.Time
	WantsDinner bool
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWaitlistOffer(ctx context.Context, data *WaitlistOfferEmailData) error
}
