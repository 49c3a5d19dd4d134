package domain

import "context"

// PaymentResult is the payment collaborator's verdict on a charge. The
// engine never computes amounts; it only consumes the signal.
type PaymentResult struct {
	Reference   string `json:"reference"`
	Succeeded   bool   `json:"succeeded"`
	AmountCents int64  `json:"amount_cents"`
}

// PaymentProcessor confirms a payment reference with the payment
// collaborator. A network or collaborator error is returned as err; a
// completed-but-declined payment comes back with Succeeded false.
type PaymentProcessor interface {
	Confirm(ctx context.Context, reference string) (*PaymentResult, error)
}
