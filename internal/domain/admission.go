package domain

import (
	"context"
	"time"
)

// AdmissionRequest is a raw RSVP submission before any capacity decision.
type AdmissionRequest struct {
	EventID         string
	Name            string
	Email           string
	PlusOnes        int
	WantsDinner     bool
	DinnerTimeSlot  *time.Time
	DinnerPartySize *int
}

// PartySize is the guest plus their plus-ones.
func (r AdmissionRequest) PartySize() int {
	return 1 + r.PlusOnes
}

// AdmissionResult is the persisted outcome of an admission decision.
type AdmissionResult struct {
	RSVP *RSVP `json:"rsvp"`
}

// AdmissionService turns RSVP requests into status decisions and lets the
// host review the resulting waitlist.
type AdmissionService interface {
	// Decide consults the ledger, applies the overflow policy when the
	// dinner slot is full, persists the RSVP, and returns it. When capacity
	// is exhausted and the event has no waitlist the request is rejected
	// with ErrCapacityExceeded and nothing is persisted.
	Decide(ctx context.Context, req AdmissionRequest) (*AdmissionResult, error)
	// ListWaitlisted pages through RSVPs with a pending portion so the host
	// can choose whom to extend offers to.
	ListWaitlisted(ctx context.Context, eventID string, p PaginationParams) ([]*RSVP, int, error)
}
