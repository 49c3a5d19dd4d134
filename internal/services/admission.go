package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guestlist/internal/domain"
)

type admissionService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RSVPRepository
	ledger    domain.CapacityLedger
}

// NewAdmissionService creates an AdmissionService backed by the given
// repositories and capacity ledger.
func NewAdmissionService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	ledger domain.CapacityLedger,
) domain.AdmissionService {
	return &admissionService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		ledger:    ledger,
	}
}

func (s *admissionService) Decide(ctx context.Context, req domain.AdmissionRequest) (*domain.AdmissionResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	cfg := event.Capacity

	if !req.WantsDinner {
		return s.decideCocktailsOnly(ctx, event, req)
	}

	if !cfg.DinnerEnabled || req.DinnerTimeSlot == nil {
		return nil, domain.ErrInvalidSlot
	}
	if cfg.DinnerStartsAt != nil && cfg.DinnerEndsAt != nil && !cfg.HasSlot(*req.DinnerTimeSlot) {
		return nil, domain.ErrInvalidSlot
	}
	dinnerSize := req.PartySize()
	if req.DinnerPartySize != nil {
		dinnerSize = *req.DinnerPartySize
	}
	if dinnerSize < 1 || dinnerSize > req.PartySize() {
		return nil, fmt.Errorf("%w: dinner party size must be between 1 and the party size", domain.ErrInvalidInput)
	}

	// Cocktails-only portion is the guests in the same party who skip dinner.
	// Both resources go through one atomic reserve: the party is never
	// half-seated.
	cocktailsPortion := req.PartySize() - dinnerSize
	err = s.ledger.TryReserve(ctx, domain.Reservation{
		EventID:      event.ID,
		GeneralUnits: cocktailsPortion,
		SlotTime:     req.DinnerTimeSlot,
		SlotUnits:    dinnerSize,
	})
	if err == nil {
		return s.persist(ctx, req, dinnerSize, domain.AttendanceConfirmed, domain.DinnerConfirmed)
	}

	var capErr *domain.CapacityError
	if !errors.As(err, &capErr) {
		return nil, fmt.Errorf("reserve capacity: %w", err)
	}

	if capErr.Resource == domain.ResourceDinnerSlot {
		// Dinner slot full, general capacity may still fit the whole party
		// as cocktail guests while dinner resolves per the overflow policy.
		dinnerStatus := ResolveOverflow(cfg.DinnerOverflowAction)
		err = s.ledger.TryReserve(ctx, domain.Reservation{
			EventID:      event.ID,
			GeneralUnits: req.PartySize(),
		})
		if err == nil {
			return s.persist(ctx, req, dinnerSize, domain.AttendanceConfirmed, dinnerStatus)
		}
		if !errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, fmt.Errorf("reserve general capacity: %w", err)
		}
	}

	// General capacity is full.
	if !cfg.WaitlistEnabled {
		return nil, fmt.Errorf("%w: %w", domain.ErrWaitlistDisabled, domain.ErrCapacityExceeded)
	}
	return s.persist(ctx, req, dinnerSize, domain.AttendanceWaitlisted, domain.DinnerWaitlist)
}

func (s *admissionService) decideCocktailsOnly(ctx context.Context, event *domain.Event, req domain.AdmissionRequest) (*domain.AdmissionResult, error) {
	err := s.ledger.TryReserve(ctx, domain.Reservation{
		EventID:      event.ID,
		GeneralUnits: req.PartySize(),
	})
	if err == nil {
		return s.persist(ctx, req, 0, domain.AttendanceConfirmed, domain.DinnerNone)
	}
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		return nil, fmt.Errorf("reserve general capacity: %w", err)
	}
	if !event.Capacity.WaitlistEnabled {
		return nil, fmt.Errorf("%w: %w", domain.ErrWaitlistDisabled, domain.ErrCapacityExceeded)
	}
	return s.persist(ctx, req, 0, domain.AttendanceWaitlisted, domain.DinnerNone)
}

func (s *admissionService) persist(ctx context.Context, req domain.AdmissionRequest, dinnerSize int, attendance domain.AttendanceStatus, dinner domain.DinnerBookingStatus) (*domain.AdmissionResult, error) {
	now := time.Now()
	rsvp := &domain.RSVP{
		EventID:             req.EventID,
		Name:                strings.TrimSpace(req.Name),
		Email:               strings.TrimSpace(strings.ToLower(req.Email)),
		PartySize:           req.PartySize(),
		PlusOnes:            req.PlusOnes,
		WantsDinner:         req.WantsDinner,
		AttendanceStatus:    attendance,
		DinnerBookingStatus: dinner,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.WantsDinner {
		rsvp.DinnerTimeSlot = req.DinnerTimeSlot
		rsvp.DinnerPartySize = &dinnerSize
	}
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	return &domain.AdmissionResult{RSVP: rsvp}, nil
}

func (s *admissionService) ListWaitlisted(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.RSVP, int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	rsvps, total, err := s.rsvpRepo.ListWaitlisted(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list waitlisted rsvps: %w", err)
	}
	return rsvps, total, nil
}

func validateRequest(req domain.AdmissionRequest) error {
	if req.EventID == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if req.PlusOnes < 0 {
		return fmt.Errorf("%w: plus ones cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}
