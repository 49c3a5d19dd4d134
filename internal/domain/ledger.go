package domain

import (
	"context"
	"time"
)

// Reservation describes the units a single party takes from the event's two
// resources. SlotTime nil means no dinner seats are requested. GeneralUnits
// may be zero for a fully-dining party, or negative to hand back general
// units the party already holds while taking slot seats in the same commit;
// callers must only hand back units they actually hold.
type Reservation struct {
	EventID      string
	GeneralUnits int
	SlotTime     *time.Time
	SlotUnits    int
}

// CapacityLedger is the single source of truth for remaining capacity.
// TryReserve is the only mutation point for counts and must be atomic per
// (event, slot) key: both requested resources are committed together or not
// at all. Unlimited resources never reject; counts never go negative.
type CapacityLedger interface {
	// RemainingGeneral returns the free general capacity, nil if unlimited.
	RemainingGeneral(ctx context.Context, eventID string) (*int, error)
	// RemainingSlot returns the free seats for a dinner slot, nil if unlimited.
	RemainingSlot(ctx context.Context, eventID string, slotTime time.Time) (*int, error)
	// TryReserve commits the reservation or returns *CapacityError (matching
	// ErrCapacityExceeded) naming the resource that was short.
	TryReserve(ctx context.Context, res Reservation) error
	// Release reverses a prior reservation. Used on payment failure or
	// cancellation; floors counts at zero.
	Release(ctx context.Context, res Reservation) error
}
