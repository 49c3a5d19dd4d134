package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"guestlist/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

const rsvpColumns = `id, event_id, name, email, party_size, plus_ones, wants_dinner,
		dinner_time_slot, dinner_party_size, attendance_status, dinner_booking_status,
		created_at, updated_at`

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (event_id, name, email, party_size, plus_ones, wants_dinner,
			dinner_time_slot, dinner_party_size, attendance_status, dinner_booking_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var slotTime sql.NullTime
	if rsvp.DinnerTimeSlot != nil {
		slotTime = sql.NullTime{Time: *rsvp.DinnerTimeSlot, Valid: true}
	}
	var dinnerSize sql.NullInt64
	if rsvp.DinnerPartySize != nil {
		dinnerSize = sql.NullInt64{Int64: int64(*rsvp.DinnerPartySize), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.Name, rsvp.Email, rsvp.PartySize, rsvp.PlusOnes, rsvp.WantsDinner,
		slotTime, dinnerSize, string(rsvp.AttendanceStatus), string(rsvp.DinnerBookingStatus),
		rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID)
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE id = $1`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) UpdateStatuses(ctx context.Context, id string, attendance domain.AttendanceStatus, dinner domain.DinnerBookingStatus) error {
	query := `
		UPDATE rsvps
		SET attendance_status = $2, dinner_booking_status = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, string(attendance), string(dinner), time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) ListWaitlisted(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.RSVP, int, error) {
	const pendingFilter = `event_id = $1 AND (attendance_status = 'waitlisted'
		OR dinner_booking_status IN ('waitlist', 'cocktails_waitlist'))`

	var total int
	countQuery := `SELECT COUNT(*) FROM rsvps WHERE ` + pendingFilter
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE ` + pendingFilter + `
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, eventID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, 0, err
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return rsvps, total, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRSVP(row rowScanner) (*domain.RSVP, error) {
	rsvp := &domain.RSVP{}
	var slotTime sql.NullTime
	var dinnerSize sql.NullInt64
	var attendance, dinner string
	err := row.Scan(
		&rsvp.ID, &rsvp.EventID, &rsvp.Name, &rsvp.Email, &rsvp.PartySize, &rsvp.PlusOnes,
		&rsvp.WantsDinner, &slotTime, &dinnerSize, &attendance, &dinner,
		&rsvp.CreatedAt, &rsvp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if slotTime.Valid {
		rsvp.DinnerTimeSlot = &slotTime.Time
	}
	if dinnerSize.Valid {
		v := int(dinnerSize.Int64)
		rsvp.DinnerPartySize = &v
	}
	rsvp.AttendanceStatus = domain.AttendanceStatus(attendance)
	rsvp.DinnerBookingStatus = domain.DinnerBookingStatus(dinner)
	return rsvp, nil
}
