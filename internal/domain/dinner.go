package domain

import "time"

// DinnerSlot is one seating time with its own cap. Capacity nil means
// unlimited, in which case Remaining is also nil.
// swagger:model DinnerSlot
type DinnerSlot struct {
	EventID  string    `json:"event_id"`
	Time     time.Time `json:"time"`
	Capacity *int      `json:"capacity"`
	Seated   int       `json:"seated"`
}

// Remaining returns the free seats for the slot, or nil when unlimited.
func (s DinnerSlot) Remaining() *int {
	if s.Capacity == nil {
		return nil
	}
	rem := *s.Capacity - s.Seated
	if rem < 0 {
		rem = 0
	}
	return &rem
}
