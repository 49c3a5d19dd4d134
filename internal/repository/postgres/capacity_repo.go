package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"guestlist/internal/domain"
)

type capacityRepository struct {
	DB *sql.DB
}

// NewCapacityRepository returns a CapacityLedger backed by conditional
// UPDATEs inside a single transaction, so a reservation commits both
// resources or neither and concurrent requests never oversell.
func NewCapacityRepository(db *sql.DB) domain.CapacityLedger {
	return &capacityRepository{
		DB: db,
	}
}

func (r *capacityRepository) RemainingGeneral(ctx context.Context, eventID string) (*int, error) {
	query := `SELECT max_attendees, attending_count FROM events WHERE id = $1`
	var maxAttendees sql.NullInt64
	var attending int
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&maxAttendees, &attending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !maxAttendees.Valid {
		return nil, nil
	}
	rem := int(maxAttendees.Int64) - attending
	if rem < 0 {
		rem = 0
	}
	return &rem, nil
}

func (r *capacityRepository) RemainingSlot(ctx context.Context, eventID string, slotTime time.Time) (*int, error) {
	query := `
		SELECT COALESCE(s.capacity, e.dinner_max_seats_per_slot), COALESCE(s.seated, 0)
		FROM events e
		LEFT JOIN dinner_slots s ON s.event_id = e.id AND s.slot_time = $2
		WHERE e.id = $1
	`
	var capacity sql.NullInt64
	var seated int
	err := r.DB.QueryRowContext(ctx, query, eventID, slotTime).Scan(&capacity, &seated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !capacity.Valid {
		return nil, nil
	}
	rem := int(capacity.Int64) - seated
	if rem < 0 {
		rem = 0
	}
	return &rem, nil
}

func (r *capacityRepository) TryReserve(ctx context.Context, res domain.Reservation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reserve tx: %w", err)
	}
	defer tx.Rollback()

	// General capacity first. The conditional WHERE makes the decrement and
	// check a single atomic statement.
	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET attending_count = attending_count + $2
		WHERE id = $1 AND (max_attendees IS NULL OR attending_count + $2 <= max_attendees)
	`, res.EventID, res.GeneralUnits)
	if err != nil {
		return fmt.Errorf("reserve general capacity: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, res.EventID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return &domain.CapacityError{Resource: domain.ResourceGeneral}
	}

	if res.SlotTime != nil {
		// Slot rows are created lazily with the event's configured cap.
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dinner_slots (event_id, slot_time, capacity, seated)
			SELECT id, $2, dinner_max_seats_per_slot, 0 FROM events WHERE id = $1
			ON CONFLICT (event_id, slot_time) DO NOTHING
		`, res.EventID, *res.SlotTime)
		if err != nil {
			return fmt.Errorf("ensure dinner slot: %w", err)
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE dinner_slots
			SET seated = seated + $3
			WHERE event_id = $1 AND slot_time = $2 AND (capacity IS NULL OR seated + $3 <= capacity)
		`, res.EventID, *res.SlotTime, res.SlotUnits)
		if err != nil {
			return fmt.Errorf("reserve dinner seats: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			// Rolling back also reverts the general decrement above.
			return &domain.CapacityError{Resource: domain.ResourceDinnerSlot}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reserve tx: %w", err)
	}
	return nil
}

func (r *capacityRepository) Release(ctx context.Context, res domain.Reservation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE events
		SET attending_count = GREATEST(attending_count - $2, 0)
		WHERE id = $1
	`, res.EventID, res.GeneralUnits); err != nil {
		return fmt.Errorf("release general capacity: %w", err)
	}

	if res.SlotTime != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE dinner_slots
			SET seated = GREATEST(seated - $3, 0)
			WHERE event_id = $1 AND slot_time = $2
		`, res.EventID, *res.SlotTime, res.SlotUnits); err != nil {
			return fmt.Errorf("release dinner seats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit release tx: %w", err)
	}
	return nil
}
