package domain

import (
	"context"
	"time"
)

// OverflowAction is the configured fallback when a dinner slot is full but
// general capacity remains.
type OverflowAction string

const (
	OverflowWaitlist  OverflowAction = "waitlist"
	OverflowCocktails OverflowAction = "cocktails"
	OverflowBoth      OverflowAction = "both"
)

// CapacityConfig is the event's capacity configuration. Owned by the event
// collaborator; read-only to the admission engine. Nil pointer capacities
// mean unlimited.
type CapacityConfig struct {
	MaxAttendees               *int           `json:"max_attendees"`
	DinnerEnabled              bool           `json:"dinner_enabled"`
	DinnerStartsAt             *time.Time     `json:"dinner_starts_at"`
	DinnerEndsAt               *time.Time     `json:"dinner_ends_at"`
	DinnerSeatingIntervalHours int            `json:"dinner_seating_interval_hours"`
	DinnerMaxSeatsPerSlot      *int           `json:"dinner_max_seats_per_slot"`
	DinnerOverflowAction       OverflowAction `json:"dinner_overflow_action"`
	WaitlistEnabled            bool           `json:"waitlist_enabled"`
}

// Event represents a hosted event with cocktail capacity and optional
// per-slot dinner seating.
// swagger:model Event
type Event struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	EventCode string         `json:"event_code"`
	OwnerID   string         `json:"owner_id"`
	Capacity  CapacityConfig `json:"capacity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SlotTimes returns the dinner seating grid: slot start times from
// DinnerStartsAt up to (and excluding) DinnerEndsAt, stepped by the seating
// interval. Empty when dinner is not enabled or the window is not set.
func (c CapacityConfig) SlotTimes() []time.Time {
	if !c.DinnerEnabled || c.DinnerStartsAt == nil || c.DinnerEndsAt == nil || c.DinnerSeatingIntervalHours <= 0 {
		return nil
	}
	step := time.Duration(c.DinnerSeatingIntervalHours) * time.Hour
	var out []time.Time
	for t := *c.DinnerStartsAt; t.Before(*c.DinnerEndsAt); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}

// HasSlot reports whether t falls on the event's seating grid.
func (c CapacityConfig) HasSlot(t time.Time) bool {
	for _, s := range c.SlotTimes() {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByEventCode(ctx context.Context, eventCode string) (*Event, error)
}
