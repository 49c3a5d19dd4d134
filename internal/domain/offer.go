package domain

import (
	"context"
	"time"
)

// OfferType is the required type claim of a waitlist offer token.
const OfferType = "waitlist_offer"

// OfferValidity is the fixed window between issuance and expiry.
const OfferValidity = 48 * time.Hour

// RSVPDetails is the immutable snapshot embedded in a signed offer. The
// signature binds the offer to these exact terms so the guest cannot claim
// a different booking than originally requested.
type RSVPDetails struct {
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PartySize       int        `json:"party_size"`
	PlusOnes        int        `json:"plus_ones"`
	WantsDinner     bool       `json:"wants_dinner"`
	DinnerTimeSlot  *time.Time `json:"dinner_time_slot"`
	DinnerPartySize *int       `json:"dinner_party_size"`
}

// OfferClaims is the signed payload of a waitlist offer token.
type OfferClaims struct {
	OfferID     string      `json:"offer_id"`
	EventID     string      `json:"event_id"`
	RSVPID      string      `json:"rsvp_id"`
	Email       string      `json:"email"`
	Type        string      `json:"type"`
	RSVPDetails RSVPDetails `json:"rsvp_details"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// WaitlistOffer is the issuance record kept alongside the signed token.
// Never mutated after creation except to mark redemption.
// swagger:model WaitlistOffer
type WaitlistOffer struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	RSVPID     string     `json:"rsvp_id"`
	Email      string     `json:"email"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RedeemedAt *time.Time `json:"redeemed_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// OfferSigner issues and verifies signed offer tokens. Verify returns
// ErrOfferExpired past the validity window and ErrInvalidOffer for bad
// signatures, malformed structure, or a mismatched type claim.
type OfferSigner interface {
	Sign(claims OfferClaims) (string, error)
	Verify(token string) (*OfferClaims, error)
}

// OfferRepository stores issuance records and arbitrates single use.
type OfferRepository interface {
	Create(ctx context.Context, offer *WaitlistOffer) error
	GetByID(ctx context.Context, id string) (*WaitlistOffer, error)
	// MarkRedeemed flips the offer from unredeemed to redeemed. Exactly one
	// concurrent caller wins; losers get ErrOfferAlreadyRedeemed.
	MarkRedeemed(ctx context.Context, id string, at time.Time) error
}

// RedemptionResult is returned to the guest after a confirmed redemption.
type RedemptionResult struct {
	RSVP    *RSVP          `json:"rsvp"`
	Offer   *WaitlistOffer `json:"offer"`
	Payment *PaymentResult `json:"payment"`
}

// OfferService drives the offer lifecycle: issuance by the host when
// capacity frees up, and redemption by the guest.
type OfferService interface {
	// IssueOffer signs a 48h offer snapshotting the RSVP's terms, records
	// it, and notifies the guest. The RSVP must have a pending portion.
	IssueOffer(ctx context.Context, rsvpID string) (string, *WaitlistOffer, error)
	// RedeemOffer verifies the token, re-checks capacity from the snapshot,
	// confirms payment, and marks the offer consumed. Exactly one of two
	// concurrent attempts can confirm.
	RedeemOffer(ctx context.Context, token, paymentRef string) (*RedemptionResult, error)
}
