package ledger

import (
	"context"
	"sync"
	"time"

	"guestlist/internal/domain"
)

type eventCounters struct {
	maxAttendees *int
	seatsPerSlot *int
	attending    int
	seated       map[int64]int // keyed by slot unix time
}

// Memory is an in-process CapacityLedger keyed by (event, slot). Counter
// mutations for one reservation happen under a single lock, so the
// all-or-nothing contract holds without retries. Suitable for single-node
// deployments and tests; multi-node setups use the postgres ledger.
type Memory struct {
	mu     sync.Mutex
	events map[string]*eventCounters
}

// NewMemory returns an empty in-memory ledger. Events must be registered
// before reservations are accepted.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]*eventCounters)}
}

// RegisterEvent installs the event's capacity limits. Calling it again for
// the same event resets the limits but keeps committed counts.
func (m *Memory) RegisterEvent(eventID string, cfg domain.CapacityConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ec, ok := m.events[eventID]
	if !ok {
		ec = &eventCounters{seated: make(map[int64]int)}
		m.events[eventID] = ec
	}
	ec.maxAttendees = copyLimit(cfg.MaxAttendees)
	ec.seatsPerSlot = copyLimit(cfg.DinnerMaxSeatsPerSlot)
}

func copyLimit(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (m *Memory) RemainingGeneral(ctx context.Context, eventID string) (*int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ec, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ec.maxAttendees == nil {
		return nil, nil
	}
	rem := *ec.maxAttendees - ec.attending
	if rem < 0 {
		rem = 0
	}
	return &rem, nil
}

func (m *Memory) RemainingSlot(ctx context.Context, eventID string, slotTime time.Time) (*int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ec, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ec.seatsPerSlot == nil {
		return nil, nil
	}
	rem := *ec.seatsPerSlot - ec.seated[slotTime.Unix()]
	if rem < 0 {
		rem = 0
	}
	return &rem, nil
}

func (m *Memory) TryReserve(ctx context.Context, res domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ec, ok := m.events[res.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	if ec.maxAttendees != nil && ec.attending+res.GeneralUnits > *ec.maxAttendees {
		return &domain.CapacityError{Resource: domain.ResourceGeneral}
	}
	if res.SlotTime != nil && ec.seatsPerSlot != nil {
		if ec.seated[res.SlotTime.Unix()]+res.SlotUnits > *ec.seatsPerSlot {
			return &domain.CapacityError{Resource: domain.ResourceDinnerSlot}
		}
	}
	ec.attending += res.GeneralUnits
	if res.SlotTime != nil {
		ec.seated[res.SlotTime.Unix()] += res.SlotUnits
	}
	return nil
}

func (m *Memory) Release(ctx context.Context, res domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ec, ok := m.events[res.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	ec.attending -= res.GeneralUnits
	if ec.attending < 0 {
		ec.attending = 0
	}
	if res.SlotTime != nil {
		key := res.SlotTime.Unix()
		ec.seated[key] -= res.SlotUnits
		if ec.seated[key] < 0 {
			ec.seated[key] = 0
		}
	}
	return nil
}
