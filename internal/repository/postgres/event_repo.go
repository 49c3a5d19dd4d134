package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"guestlist/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, event_code, owner_id, max_attendees, dinner_enabled,
		dinner_starts_at, dinner_ends_at, dinner_seating_interval_hours,
		dinner_max_seats_per_slot, dinner_overflow_action, waitlist_enabled,
		created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, event_code, owner_id, max_attendees, dinner_enabled,
			dinner_starts_at, dinner_ends_at, dinner_seating_interval_hours,
			dinner_max_seats_per_slot, dinner_overflow_action, waitlist_enabled,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var maxAttendees, maxSeats sql.NullInt64
	if e.Capacity.MaxAttendees != nil {
		maxAttendees = sql.NullInt64{Int64: int64(*e.Capacity.MaxAttendees), Valid: true}
	}
	if e.Capacity.DinnerMaxSeatsPerSlot != nil {
		maxSeats = sql.NullInt64{Int64: int64(*e.Capacity.DinnerMaxSeatsPerSlot), Valid: true}
	}
	var startsAt, endsAt sql.NullTime
	if e.Capacity.DinnerStartsAt != nil {
		startsAt = sql.NullTime{Time: *e.Capacity.DinnerStartsAt, Valid: true}
	}
	if e.Capacity.DinnerEndsAt != nil {
		endsAt = sql.NullTime{Time: *e.Capacity.DinnerEndsAt, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.EventCode, e.OwnerID, maxAttendees, e.Capacity.DinnerEnabled,
		startsAt, endsAt, e.Capacity.DinnerSeatingIntervalHours,
		maxSeats, string(e.Capacity.DinnerOverflowAction), e.Capacity.WaitlistEnabled,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.Event, error) {
	code := strings.ToLower(strings.TrimSpace(eventCode))
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_code = $1`
	return r.scanEvent(r.DB.QueryRowContext(ctx, query, code))
}

func (r *eventRepository) scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var maxAttendees, maxSeats sql.NullInt64
	var startsAt, endsAt sql.NullTime
	var overflow string
	err := row.Scan(
		&e.ID, &e.Name, &e.EventCode, &e.OwnerID, &maxAttendees, &e.Capacity.DinnerEnabled,
		&startsAt, &endsAt, &e.Capacity.DinnerSeatingIntervalHours,
		&maxSeats, &overflow, &e.Capacity.WaitlistEnabled,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if maxAttendees.Valid {
		v := int(maxAttendees.Int64)
		e.Capacity.MaxAttendees = &v
	}
	if maxSeats.Valid {
		v := int(maxSeats.Int64)
		e.Capacity.DinnerMaxSeatsPerSlot = &v
	}
	if startsAt.Valid {
		e.Capacity.DinnerStartsAt = &startsAt.Time
	}
	if endsAt.Valid {
		e.Capacity.DinnerEndsAt = &endsAt.Time
	}
	e.Capacity.DinnerOverflowAction = domain.OverflowAction(overflow)
	return e, nil
}
