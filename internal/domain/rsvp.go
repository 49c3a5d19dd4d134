package domain

import (
	"context"
	"time"
)

// AttendanceStatus is the guest's standing for the event itself.
type AttendanceStatus string

const (
	AttendanceConfirmed  AttendanceStatus = "confirmed"
	AttendanceWaitlisted AttendanceStatus = "waitlisted"
)

// DinnerBookingStatus is the guest's standing for the dinner portion.
type DinnerBookingStatus string

const (
	DinnerNone              DinnerBookingStatus = "none"
	DinnerConfirmed         DinnerBookingStatus = "confirmed"
	DinnerWaitlist          DinnerBookingStatus = "waitlist"
	DinnerCocktails         DinnerBookingStatus = "cocktails"
	DinnerCocktailsWaitlist DinnerBookingStatus = "cocktails_waitlist"
)

// RSVP is a guest's reply to an event, as decided by the admission layer.
// If WantsDinner is false the dinner fields are nil and DinnerBookingStatus
// is DinnerNone.
// swagger:model RSVP
type RSVP struct {
	ID                  string              `json:"id"`
	EventID             string              `json:"event_id"`
	Name                string              `json:"name"`
	Email               string              `json:"email"`
	PartySize           int                 `json:"party_size"`
	PlusOnes            int                 `json:"plus_ones"`
	WantsDinner         bool                `json:"wants_dinner"`
	DinnerTimeSlot      *time.Time          `json:"dinner_time_slot"`
	DinnerPartySize     *int                `json:"dinner_party_size"`
	AttendanceStatus    AttendanceStatus    `json:"attendance_status"`
	DinnerBookingStatus DinnerBookingStatus `json:"dinner_booking_status"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// Waitlisted reports whether any portion of the RSVP is still pending, i.e.
// the guest is eligible for a waitlist offer.
func (r *RSVP) Waitlisted() bool {
	if r.AttendanceStatus == AttendanceWaitlisted {
		return true
	}
	return r.DinnerBookingStatus == DinnerWaitlist || r.DinnerBookingStatus == DinnerCocktailsWaitlist
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	Create(ctx context.Context, rsvp *RSVP) error
	GetByID(ctx context.Context, id string) (*RSVP, error)
	// UpdateStatuses sets both statuses on an existing RSVP.
	UpdateStatuses(ctx context.Context, id string, attendance AttendanceStatus, dinner DinnerBookingStatus) error
	// ListWaitlisted returns RSVPs with any pending portion for the event,
	// oldest first, plus the total count for pagination.
	ListWaitlisted(ctx context.Context, eventID string, p PaginationParams) ([]*RSVP, int, error)
}
