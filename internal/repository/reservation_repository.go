package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/maytri315/parking-app/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.
// Reservations are historical records: they are inserted once when a
// spot is claimed and mutated exactly once on release, never deleted.
// All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a new reservation with a null end timestamp and
// populates the generated ID on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, spot_id, vehicle_no, rate_per_hour, started_at)
	           VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.UserID, res.SpotID, res.VehicleNo, res.RatePerHour, res.StartedAt.UTC())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID retrieves a reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, spot_id, vehicle_no, rate_per_hour, started_at, ended_at, cost
	           FROM reservations WHERE id = ?`
	var (
		res     model.Reservation
		endedAt sql.NullTime
		cost    sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.UserID, &res.SpotID, &res.VehicleNo, &res.RatePerHour,
		&res.StartedAt, &endedAt, &cost,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time.UTC()
		res.EndedAt = &t
	}
	if cost.Valid {
		c := cost.Float64
		res.Cost = &c
	}
	res.StartedAt = res.StartedAt.UTC()
	return &res, nil
}

// MarkReleased sets the end timestamp and cost of an active
// reservation.  The `ended_at IS NULL` guard makes the transition
// single-shot: a second release of the same reservation changes no
// rows and returns ErrAlreadyReleased, leaving the stored cost as the
// first release computed it.
func (r *ReservationRepo) MarkReleased(ctx context.Context, id uint64, endedAt time.Time, cost float64) error {
	const q = `UPDATE reservations
	           SET ended_at = ?, cost = ?
	           WHERE id = ? AND ended_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, endedAt.UTC(), cost, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
		return ErrAlreadyReleased
	}
	return nil
}

// ListByUser returns all reservations of a user, most recent first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, spot_id, vehicle_no, rate_per_hour, started_at, ended_at, cost
	           FROM reservations WHERE user_id = ?
	           ORDER BY started_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		var (
			res     model.Reservation
			endedAt sql.NullTime
			cost    sql.NullFloat64
		)
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.SpotID, &res.VehicleNo, &res.RatePerHour,
			&res.StartedAt, &endedAt, &cost,
		); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			t := endedAt.Time.UTC()
			res.EndedAt = &t
		}
		if cost.Valid {
			c := cost.Float64
			res.Cost = &c
		}
		res.StartedAt = res.StartedAt.UTC()
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasActive reports whether the user currently occupies any spot.
func (r *ReservationRepo) HasActive(ctx context.Context, userID uint64) (bool, error) {
	const q = `SELECT 1 FROM reservations WHERE user_id = ? AND ended_at IS NULL LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SummaryForUser aggregates a user's reservations that started inside
// [from, to): how many bookings and the total released cost.  Active
// reservations count toward the booking number but contribute no cost
// yet.
func (r *ReservationRepo) SummaryForUser(ctx context.Context, userID uint64, from, to time.Time) (int, float64, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(cost), 0)
	           FROM reservations
	           WHERE user_id = ? AND started_at >= ? AND started_at < ?`
	var (
		count int
		total float64
	)
	err := r.db.QueryRowContext(ctx, q, userID, from.UTC(), to.UTC()).Scan(&count, &total)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}
