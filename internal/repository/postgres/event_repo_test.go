package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"guestlist/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:      "Summer Gala",
				EventCode: "GALA",
				OwnerID:   "host-1",
				Capacity: domain.CapacityConfig{
					MaxAttendees:         intPtr(100),
					DinnerEnabled:        true,
					DinnerOverflowAction: domain.OverflowWaitlist,
					WaitlistEnabled:      true,
				},
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name: "db error",
			event: &domain.Event{
				Name:      "Gala",
				EventCode: "WXYZ",
				OwnerID:   "host-1",
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dinnerStart := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	dinnerEnd := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)

	eventRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "name", "event_code", "owner_id", "max_attendees", "dinner_enabled",
			"dinner_starts_at", "dinner_ends_at", "dinner_seating_interval_hours",
			"dinner_max_seats_per_slot", "dinner_overflow_action", "waitlist_enabled",
			"created_at", "updated_at",
		})
	}

	t.Run("limited capacities", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM events`).
			WithArgs("ev-1").
			WillReturnRows(eventRows().
				AddRow("ev-1", "Summer Gala", "GALA", "host-1", 100, true,
					dinnerStart, dinnerEnd, 2, 8, "cocktails", true, now, now))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.NotNil(t, e.Capacity.MaxAttendees)
		assert.Equal(t, 100, *e.Capacity.MaxAttendees)
		require.NotNil(t, e.Capacity.DinnerMaxSeatsPerSlot)
		assert.Equal(t, 8, *e.Capacity.DinnerMaxSeatsPerSlot)
		assert.Equal(t, domain.OverflowCocktails, e.Capacity.DinnerOverflowAction)
		assert.True(t, e.Capacity.HasSlot(dinnerStart.Add(2*time.Hour)))
		assert.False(t, e.Capacity.HasSlot(dinnerStart.Add(time.Hour)))
	})

	t.Run("unlimited capacities", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM events`).
			WithArgs("ev-1").
			WillReturnRows(eventRows().
				AddRow("ev-1", "Summer Gala", "GALA", "host-1", nil, false,
					nil, nil, 0, nil, "waitlist", false, now, now))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		assert.Nil(t, e.Capacity.MaxAttendees)
		assert.Nil(t, e.Capacity.DinnerMaxSeatsPerSlot)
		assert.Empty(t, e.Capacity.SlotTimes())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM events`).
			WithArgs("missing").
			WillReturnRows(eventRows())

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
