package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"guestlist/internal/adapters/ledger"
	"guestlist/internal/domain"
)

func intPtr(v int) *int { return &v }

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID map[string]*domain.Event
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByEventCode(ctx context.Context, code string) (*domain.Event, error) {
	for _, e := range f.byID {
		if e.EventCode == code {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeRSVPRepo is an in-memory RSVPRepository for tests. Guarded by a mutex
// so concurrent redemption tests stay race-clean.
type fakeRSVPRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.RSVP
	nextID int
	err    error // if set, Create returns this error
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{byID: make(map[string]*domain.RSVP), nextID: 1}
}

func (f *fakeRSVPRepo) Create(ctx context.Context, r *domain.RSVP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	r.ID = fmt.Sprintf("rsvp-%d", f.nextID)
	f.nextID++
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRSVPRepo) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRSVPRepo) UpdateStatuses(ctx context.Context, id string, attendance domain.AttendanceStatus, dinner domain.DinnerBookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.AttendanceStatus = attendance
	r.DinnerBookingStatus = dinner
	return nil
}

func (f *fakeRSVPRepo) ListWaitlisted(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.RSVP, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.RSVP
	for _, r := range f.byID {
		if r.EventID == eventID && r.Waitlisted() {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

// mustGet returns the stored RSVP for assertions.
func (f *fakeRSVPRepo) mustGet(t *testing.T, id string) *domain.RSVP {
	t.Helper()
	r, err := f.GetByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

func testEvent(cfg domain.CapacityConfig) *domain.Event {
	return &domain.Event{
		ID:        "ev-1",
		Name:      "Summer Gala",
		EventCode: "gala",
		OwnerID:   "host-1",
		Capacity:  cfg,
	}
}

func testSlot() time.Time {
	return time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
}

func newTestLedger(cfg domain.CapacityConfig) *ledger.Memory {
	m := ledger.NewMemory()
	m.RegisterEvent("ev-1", cfg)
	return m
}

func TestAdmissionService_Decide_CocktailsOnly(t *testing.T) {
	ctx := context.Background()
	cfg := domain.CapacityConfig{MaxAttendees: intPtr(10), WaitlistEnabled: true}
	svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), newFakeRSVPRepo(), newTestLedger(cfg))

	result, err := svc.Decide(ctx, domain.AdmissionRequest{
		EventID: "ev-1", Name: "Ada", Email: "Ada@Example.com", PlusOnes: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceConfirmed, result.RSVP.AttendanceStatus)
	assert.Equal(t, domain.DinnerNone, result.RSVP.DinnerBookingStatus)
	assert.Equal(t, 3, result.RSVP.PartySize)
	assert.Equal(t, "ada@example.com", result.RSVP.Email)
	assert.Nil(t, result.RSVP.DinnerTimeSlot)
	assert.Nil(t, result.RSVP.DinnerPartySize)
}

func TestAdmissionService_Decide_FullEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("waitlist enabled", func(t *testing.T) {
		cfg := domain.CapacityConfig{MaxAttendees: intPtr(10), WaitlistEnabled: true}
		led := newTestLedger(cfg)
		require.NoError(t, led.TryReserve(ctx, domain.Reservation{EventID: "ev-1", GeneralUnits: 10}))
		svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), newFakeRSVPRepo(), led)

		result, err := svc.Decide(ctx, domain.AdmissionRequest{EventID: "ev-1", Name: "Ada", Email: "a@example.com"})
		require.NoError(t, err)
		assert.Equal(t, domain.AttendanceWaitlisted, result.RSVP.AttendanceStatus)
	})

	t.Run("waitlist disabled", func(t *testing.T) {
		cfg := domain.CapacityConfig{MaxAttendees: intPtr(10), WaitlistEnabled: false}
		led := newTestLedger(cfg)
		require.NoError(t, led.TryReserve(ctx, domain.Reservation{EventID: "ev-1", GeneralUnits: 10}))
		rsvps := newFakeRSVPRepo()
		svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), rsvps, led)

		_, err := svc.Decide(ctx, domain.AdmissionRequest{EventID: "ev-1", Name: "Ada", Email: "a@example.com"})
		require.ErrorIs(t, err, domain.ErrCapacityExceeded)
		require.ErrorIs(t, err, domain.ErrWaitlistDisabled)
		assert.Empty(t, rsvps.byID, "rejected request must not be persisted")
	})
}

func TestAdmissionService_Decide_DinnerConfirmed(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()
	cfg := domain.CapacityConfig{
		MaxAttendees:          intPtr(10),
		DinnerEnabled:         true,
		DinnerMaxSeatsPerSlot: intPtr(4),
		DinnerOverflowAction:  domain.OverflowWaitlist,
		WaitlistEnabled:       true,
	}
	led := newTestLedger(cfg)
	svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), newFakeRSVPRepo(), led)

	// Party of 3, 2 dining: 1 general unit + 2 dinner seats.
	result, err := svc.Decide(ctx, domain.AdmissionRequest{
		EventID: "ev-1", Name: "Ada", Email: "a@example.com", PlusOnes: 2,
		WantsDinner: true, DinnerTimeSlot: &slot, DinnerPartySize: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceConfirmed, result.RSVP.AttendanceStatus)
	assert.Equal(t, domain.DinnerConfirmed, result.RSVP.DinnerBookingStatus)
	require.NotNil(t, result.RSVP.DinnerPartySize)
	assert.Equal(t, 2, *result.RSVP.DinnerPartySize)

	remGen, err := led.RemainingGeneral(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 9, *remGen)
	remSlot, err := led.RemainingSlot(ctx, "ev-1", slot)
	require.NoError(t, err)
	assert.Equal(t, 2, *remSlot)
}

func TestAdmissionService_Decide_OverflowPolicies(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()

	tests := []struct {
		action domain.OverflowAction
		want   domain.DinnerBookingStatus
	}{
		{domain.OverflowWaitlist, domain.DinnerWaitlist},
		{domain.OverflowCocktails, domain.DinnerCocktails},
		{domain.OverflowBoth, domain.DinnerCocktailsWaitlist},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			cfg := domain.CapacityConfig{
				MaxAttendees:          intPtr(10),
				DinnerEnabled:         true,
				DinnerMaxSeatsPerSlot: intPtr(2),
				DinnerOverflowAction:  tt.action,
				WaitlistEnabled:       true,
			}
			led := newTestLedger(cfg)
			// Both dinner seats already taken.
			require.NoError(t, led.TryReserve(ctx, domain.Reservation{EventID: "ev-1", SlotTime: &slot, SlotUnits: 2}))
			svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), newFakeRSVPRepo(), led)

			result, err := svc.Decide(ctx, domain.AdmissionRequest{
				EventID: "ev-1", Name: "Ada", Email: "a@example.com",
				WantsDinner: true, DinnerTimeSlot: &slot,
			})
			require.NoError(t, err)
			assert.Equal(t, domain.AttendanceConfirmed, result.RSVP.AttendanceStatus)
			assert.Equal(t, tt.want, result.RSVP.DinnerBookingStatus)

			// The party lands on general capacity instead of the slot.
			remGen, err := led.RemainingGeneral(ctx, "ev-1")
			require.NoError(t, err)
			assert.Equal(t, 9, *remGen)
			remSlot, err := led.RemainingSlot(ctx, "ev-1", slot)
			require.NoError(t, err)
			assert.Equal(t, 0, *remSlot)
		})
	}
}

func TestAdmissionService_Decide_DinnerGeneralFull(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()
	cfg := domain.CapacityConfig{
		MaxAttendees:          intPtr(2),
		DinnerEnabled:         true,
		DinnerMaxSeatsPerSlot: intPtr(4),
		DinnerOverflowAction:  domain.OverflowCocktails,
		WaitlistEnabled:       true,
	}
	led := newTestLedger(cfg)
	require.NoError(t, led.TryReserve(ctx, domain.Reservation{EventID: "ev-1", GeneralUnits: 2}))
	svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), newFakeRSVPRepo(), led)

	// Party of 2 with 1 dining: the cocktails portion cannot fit.
	result, err := svc.Decide(ctx, domain.AdmissionRequest{
		EventID: "ev-1", Name: "Ada", Email: "a@example.com", PlusOnes: 1,
		WantsDinner: true, DinnerTimeSlot: &slot, DinnerPartySize: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceWaitlisted, result.RSVP.AttendanceStatus)

	// The dinner seat must not be committed for a waitlisted party.
	remSlot, err := led.RemainingSlot(ctx, "ev-1", slot)
	require.NoError(t, err)
	assert.Equal(t, 4, *remSlot)
}

func TestAdmissionService_Decide_InvalidRequests(t *testing.T) {
	ctx := context.Background()
	slot := testSlot()
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)
	offGrid := start.Add(30 * time.Minute)
	cfg := domain.CapacityConfig{
		DinnerEnabled:              true,
		DinnerStartsAt:             &start,
		DinnerEndsAt:               &end,
		DinnerSeatingIntervalHours: 1,
		WaitlistEnabled:            true,
	}
	svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), newFakeRSVPRepo(), newTestLedger(cfg))

	tests := []struct {
		name    string
		req     domain.AdmissionRequest
		wantErr error
	}{
		{
			name:    "missing email",
			req:     domain.AdmissionRequest{EventID: "ev-1", Name: "Ada"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "dinner without slot",
			req:     domain.AdmissionRequest{EventID: "ev-1", Name: "Ada", Email: "a@example.com", WantsDinner: true},
			wantErr: domain.ErrInvalidSlot,
		},
		{
			name: "off-grid slot",
			req: domain.AdmissionRequest{
				EventID: "ev-1", Name: "Ada", Email: "a@example.com",
				WantsDinner: true, DinnerTimeSlot: &offGrid,
			},
			wantErr: domain.ErrInvalidSlot,
		},
		{
			name: "dinner party larger than party",
			req: domain.AdmissionRequest{
				EventID: "ev-1", Name: "Ada", Email: "a@example.com",
				WantsDinner: true, DinnerTimeSlot: &slot, DinnerPartySize: intPtr(5),
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown event",
			req:     domain.AdmissionRequest{EventID: "missing", Name: "Ada", Email: "a@example.com"},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decide(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAdmissionService_ListWaitlisted(t *testing.T) {
	ctx := context.Background()
	cfg := domain.CapacityConfig{MaxAttendees: intPtr(1), WaitlistEnabled: true}
	rsvps := newFakeRSVPRepo()
	svc := NewAdmissionService(newFakeEventRepo(testEvent(cfg)), rsvps, newTestLedger(cfg))

	_, err := svc.Decide(ctx, domain.AdmissionRequest{EventID: "ev-1", Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Decide(ctx, domain.AdmissionRequest{EventID: "ev-1", Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	waitlisted, total, err := svc.ListWaitlisted(ctx, "ev-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, waitlisted, 1)
	assert.Equal(t, "b@example.com", waitlisted[0].Email)

	_, _, err = svc.ListWaitlisted(ctx, "missing", domain.PaginationParams{Page: 1, PageSize: 20})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
