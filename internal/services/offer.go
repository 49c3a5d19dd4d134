package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"guestlist/internal/domain"
)

type offerService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RSVPRepository
	offerRepo domain.OfferRepository
	ledger    domain.CapacityLedger
	signer    domain.OfferSigner
	payments  domain.PaymentProcessor
	emails    domain.EmailService
	redeemURL string
	logger    *slog.Logger
	now       func() time.Time
}

// NewOfferService creates an OfferService. redeemURL is the guest-facing
// base URL the token is appended to in the notification email.
func NewOfferService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	offerRepo domain.OfferRepository,
	ledger domain.CapacityLedger,
	signer domain.OfferSigner,
	payments domain.PaymentProcessor,
	emails domain.EmailService,
	redeemURL string,
	logger *slog.Logger,
) domain.OfferService {
	return &offerService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		offerRepo: offerRepo,
		ledger:    ledger,
		signer:    signer,
		payments:  payments,
		emails:    emails,
		redeemURL: redeemURL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *offerService) IssueOffer(ctx context.Context, rsvpID string) (string, *domain.WaitlistOffer, error) {
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrNotFound
		}
		return "", nil, fmt.Errorf("get rsvp: %w", err)
	}
	if !rsvp.Waitlisted() {
		return "", nil, fmt.Errorf("%w: rsvp has no pending portion", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByID(ctx, rsvp.EventID)
	if err != nil {
		return "", nil, fmt.Errorf("get event: %w", err)
	}

	// Token exp claims carry whole seconds, so the stored record and the
	// email must advertise the same truncated instant the token enforces.
	now := s.now().Truncate(time.Second)
	offer := &domain.WaitlistOffer{
		ID:        uuid.NewString(),
		EventID:   rsvp.EventID,
		RSVPID:    rsvp.ID,
		Email:     rsvp.Email,
		ExpiresAt: now.Add(domain.OfferValidity),
		CreatedAt: now,
	}
	// The snapshot rides inside the signed token so redemption cannot be
	// renegotiated against mutated RSVP state.
	token, err := s.signer.Sign(domain.OfferClaims{
		OfferID: offer.ID,
		EventID: offer.EventID,
		RSVPID:  offer.RSVPID,
		Email:   offer.Email,
		Type:    domain.OfferType,
		RSVPDetails: domain.RSVPDetails{
			Name:            rsvp.Name,
			Email:           rsvp.Email,
			PartySize:       rsvp.PartySize,
			PlusOnes:        rsvp.PlusOnes,
			WantsDinner:     rsvp.WantsDinner,
			DinnerTimeSlot:  rsvp.DinnerTimeSlot,
			DinnerPartySize: rsvp.DinnerPartySize,
		},
		ExpiresAt: offer.ExpiresAt,
	})
	if err != nil {
		return "", nil, fmt.Errorf("sign offer: %w", err)
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return "", nil, fmt.Errorf("create offer: %w", err)
	}

	if err := s.emails.SendWaitlistOffer(ctx, &domain.WaitlistOfferEmailData{
		Name:        rsvp.Name,
		Email:       rsvp.Email,
		EventName:   event.Name,
		RedeemURL:   s.redeemURL + "?token=" + token,
		ExpiresAt:   offer.ExpiresAt,
		WantsDinner: rsvp.WantsDinner,
	}); err != nil {
		// The signed offer is already valid; the host can re-send the link.
		s.logger.Warn("offer email failed", "offer_id", offer.ID, "err", err)
	}
	return token, offer, nil
}

func (s *offerService) RedeemOffer(ctx context.Context, token, paymentRef string) (*domain.RedemptionResult, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	offer, err := s.offerRepo.GetByID(ctx, claims.OfferID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidOffer
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	if offer.RedeemedAt != nil {
		return nil, domain.ErrOfferAlreadyRedeemed
	}
	rsvp, err := s.rsvpRepo.GetByID(ctx, claims.RSVPID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidOffer
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	// Capacity is re-checked from the snapshot: the slot may have gone to
	// someone else since issuance, so a validly signed token can still lose.
	// The delta depends on what the party already holds, so a cocktail-
	// converted party is never charged general capacity twice.
	res := redemptionReservation(rsvp, claims.EventID, claims.RSVPDetails)
	if err := s.ledger.TryReserve(ctx, res); err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("reserve at redemption: %w", err)
	}

	payment, err := s.payments.Confirm(ctx, paymentRef)
	if err != nil {
		s.release(ctx, res)
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	if !payment.Succeeded {
		s.release(ctx, res)
		return nil, domain.ErrPaymentFailed
	}

	// Single use: the repository arbitrates races, so a concurrent loser
	// lands here, gives the capacity back, and never double-confirms.
	redeemedAt := s.now()
	if err := s.offerRepo.MarkRedeemed(ctx, claims.OfferID, redeemedAt); err != nil {
		s.release(ctx, res)
		if errors.Is(err, domain.ErrOfferAlreadyRedeemed) {
			return nil, domain.ErrOfferAlreadyRedeemed
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidOffer
		}
		return nil, fmt.Errorf("mark offer redeemed: %w", err)
	}

	dinnerStatus := domain.DinnerNone
	if claims.RSVPDetails.WantsDinner {
		dinnerStatus = domain.DinnerConfirmed
	}
	if err := s.rsvpRepo.UpdateStatuses(ctx, claims.RSVPID, domain.AttendanceConfirmed, dinnerStatus); err != nil {
		return nil, fmt.Errorf("confirm rsvp: %w", err)
	}
	confirmed, err := s.rsvpRepo.GetByID(ctx, claims.RSVPID)
	if err != nil {
		return nil, fmt.Errorf("get confirmed rsvp: %w", err)
	}
	offer.RedeemedAt = &redeemedAt
	return &domain.RedemptionResult{RSVP: confirmed, Offer: offer, Payment: payment}, nil
}

func (s *offerService) release(ctx context.Context, res domain.Reservation) {
	if err := s.ledger.Release(ctx, res); err != nil {
		s.logger.Error("failed to release reservation", "event_id", res.EventID, "err", err)
	}
}

// redemptionReservation computes the ledger delta that confirms the offer.
// A fully waitlisted party holds nothing and reserves the admission-time
// split: dinner guests take slot seats, the rest take general capacity. A
// party already confirmed as cocktail guests holds general capacity for
// everyone, so only its dinner guests move: they take slot seats and hand
// back the same number of general units in the same atomic reserve.
func redemptionReservation(rsvp *domain.RSVP, eventID string, d domain.RSVPDetails) domain.Reservation {
	if !d.WantsDinner || d.DinnerTimeSlot == nil {
		return domain.Reservation{EventID: eventID, GeneralUnits: d.PartySize}
	}
	dinnerSize := d.PartySize
	if d.DinnerPartySize != nil {
		dinnerSize = *d.DinnerPartySize
	}
	if rsvp.AttendanceStatus == domain.AttendanceConfirmed {
		return domain.Reservation{
			EventID:      eventID,
			GeneralUnits: -dinnerSize,
			SlotTime:     d.DinnerTimeSlot,
			SlotUnits:    dinnerSize,
		}
	}
	return domain.Reservation{
		EventID:      eventID,
		GeneralUnits: d.PartySize - dinnerSize,
		SlotTime:     d.DinnerTimeSlot,
		SlotUnits:    dinnerSize,
	}
}
