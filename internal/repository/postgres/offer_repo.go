package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"guestlist/internal/domain"
)

type offerRepository struct {
	DB *sql.DB
}

func NewOfferRepository(db *sql.DB) domain.OfferRepository {
	return &offerRepository{
		DB: db,
	}
}

func (r *offerRepository) Create(ctx context.Context, offer *domain.WaitlistOffer) error {
	query := `
		INSERT INTO waitlist_offers (id, event_id, rsvp_id, email, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		offer.ID, offer.EventID, offer.RSVPID, offer.Email, offer.ExpiresAt, offer.CreatedAt,
	)
	return err
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*domain.WaitlistOffer, error) {
	query := `
		SELECT id, event_id, rsvp_id, email, expires_at, redeemed_at, created_at
		FROM waitlist_offers
		WHERE id = $1
	`
	offer := &domain.WaitlistOffer{}
	var redeemedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&offer.ID, &offer.EventID, &offer.RSVPID, &offer.Email,
		&offer.ExpiresAt, &redeemedAt, &offer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if redeemedAt.Valid {
		offer.RedeemedAt = &redeemedAt.Time
	}
	return offer, nil
}

// MarkRedeemed flips redeemed_at from NULL; the conditional WHERE makes the
// database arbitrate concurrent redemptions so exactly one caller wins.
func (r *offerRepository) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE waitlist_offers
		SET redeemed_at = $2
		WHERE id = $1 AND redeemed_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM waitlist_offers WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrOfferAlreadyRedeemed
	}
	return nil
}
