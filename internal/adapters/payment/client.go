package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"guestlist/internal/domain"
)

type httpProcessor struct {
	client  *http.Client
	baseURL string
}

// NewHTTPProcessor returns a PaymentProcessor that confirms payment
// references against the payment collaborator's API.
func NewHTTPProcessor(client *http.Client, baseURL string) domain.PaymentProcessor {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpProcessor{client: client, baseURL: baseURL}
}

type paymentStatusResponse struct {
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
}

func (p *httpProcessor) Confirm(ctx context.Context, reference string) (*domain.PaymentResult, error) {
	url := fmt.Sprintf("%s/payments/%s", p.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment api returned status: %d", resp.StatusCode)
	}

	var data paymentStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	return &domain.PaymentResult{
		Reference:   data.Reference,
		Succeeded:   data.Status == "succeeded",
		AmountCents: data.AmountCents,
	}, nil
}

type noopProcessor struct{}

// NewNoopProcessor returns a processor that approves every reference.
// Development only.
func NewNoopProcessor() domain.PaymentProcessor {
	return &noopProcessor{}
}

func (n *noopProcessor) Confirm(ctx context.Context, reference string) (*domain.PaymentResult, error) {
	return &domain.PaymentResult{Reference: reference, Succeeded: true}, nil
}
