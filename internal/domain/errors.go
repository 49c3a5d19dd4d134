package domain

import "errors"

// Sentinel errors shared across the admission and offer flows.
var (
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded is returned by the ledger when a reservation cannot
	// be committed without overselling. Recoverable: callers fall back to the
	// waitlist or reject the request.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrWaitlistDisabled is returned when capacity is exhausted and the event
	// does not accept waitlisted guests.
	ErrWaitlistDisabled = errors.New("event is full and does not accept a waitlist")

	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidSlot  = errors.New("requested dinner slot is not offered for this event")

	// ErrOfferExpired is terminal for the presented token.
	ErrOfferExpired = errors.New("offer token has expired")

	// ErrInvalidOffer covers bad signatures and malformed or mistyped tokens.
	// Treated as tampering; the guest only sees a generic message.
	ErrInvalidOffer = errors.New("offer token is invalid")

	// ErrOfferAlreadyRedeemed is observed by the loser of a redemption race.
	ErrOfferAlreadyRedeemed = errors.New("offer has already been redeemed")

	// ErrPaymentFailed triggers a capacity release; the token stays usable
	// until it expires.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrConfiguration is fatal at startup (e.g. no signing secret).
	ErrConfiguration = errors.New("configuration error")
)

// CapacityError reports which resource rejected a reservation. It matches
// ErrCapacityExceeded under errors.Is so callers that only care about the
// category keep working.
type CapacityError struct {
	Resource ResourceKind
}

// ResourceKind identifies one of the two scarce resources per event.
type ResourceKind string

const (
	ResourceGeneral    ResourceKind = "general"
	ResourceDinnerSlot ResourceKind = "dinner_slot"
)

func (e *CapacityError) Error() string {
	return string(e.Resource) + " capacity exceeded"
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
