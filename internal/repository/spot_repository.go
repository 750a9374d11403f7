package repository // repository defines data access for parking spots

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maytri315/parking-app/internal/model"
)

// SpotRepo provides methods to work with parking spots.  The status
// column is the single most contended piece of state in the system:
// every write to it goes through a conditional UPDATE guarded by the
// current status, never a read-then-write.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo constructs a SpotRepo with the given DB handle.
func NewSpotRepo(db *sql.DB) *SpotRepo { return &SpotRepo{db: db} }

// CreateBulk inserts n available spots for a lot in a single statement.
func (r *SpotRepo) CreateBulk(ctx context.Context, lotID uint64, n int) error {
	if n <= 0 {
		return nil
	}
	query := `INSERT INTO parking_spots (lot_id, status) VALUES `
	args := make([]interface{}, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, lotID, model.SpotAvailable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ClaimFree atomically claims one available spot in the lot and returns
// its id.  The selection and the transition are separate statements, so
// the UPDATE re-checks the status: it only wins when exactly one row
// flips from AVAILABLE to OCCUPIED.  A caller that loses the race for a
// candidate simply moves on to the next one; when no candidate remains
// the lot is full and ErrNoAvailableSpot is returned.  Two concurrent
// callers can therefore never be handed the same spot id.
func (r *SpotRepo) ClaimFree(ctx context.Context, lotID uint64) (uint64, error) {
	const sel = `SELECT id FROM parking_spots
	             WHERE lot_id = ? AND status = ?
	             ORDER BY id LIMIT 1`
	const claim = `UPDATE parking_spots
	               SET status = ?, updated_at = CURRENT_TIMESTAMP
	               WHERE id = ? AND status = ?`
	for {
		var id uint64
		err := r.db.QueryRowContext(ctx, sel, lotID, model.SpotAvailable).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, ErrNoAvailableSpot
			}
			return 0, err
		}
		res, err := r.db.ExecContext(ctx, claim, model.SpotOccupied, id, model.SpotAvailable)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return id, nil
		}
		// lost the race for this candidate; pick the next free spot
	}
}

// Release transitions an occupied spot back to available.  Releasing a
// spot that is already available is a no-op, not an error, since the
// lifecycle manager has already validated the reservation driving the
// release.  Returns ErrSpotNotFound when the id is unknown.
func (r *SpotRepo) Release(ctx context.Context, spotID uint64) error {
	const q = `UPDATE parking_spots
	           SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.SpotAvailable, spotID, model.SpotOccupied)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	// nothing flipped: either the spot is already available or it
	// does not exist at all
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM parking_spots WHERE id = ?`, spotID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSpotNotFound
		}
		return err
	}
	return nil
}

// CountAvailable returns the number of free spots in a lot.
func (r *SpotRepo) CountAvailable(ctx context.Context, lotID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM parking_spots WHERE lot_id = ? AND status = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, lotID, model.SpotAvailable).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountOccupied returns the number of occupied spots in a lot.
func (r *SpotRepo) CountOccupied(ctx context.Context, lotID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM parking_spots WHERE lot_id = ? AND status = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, lotID, model.SpotOccupied).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByLot retrieves all spots of a lot ordered by id.
func (r *SpotRepo) ListByLot(ctx context.Context, lotID uint64) ([]model.Spot, error) {
	const q = `SELECT id, lot_id, status, created_at, updated_at
	           FROM parking_spots WHERE lot_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots := make([]model.Spot, 0)
	for rows.Next() {
		var s model.Spot
		if err := rows.Scan(&s.ID, &s.LotID, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return spots, nil
}

// DeleteAvailable removes up to n available spots from a lot and
// reports how many rows went away.  The status guard in the DELETE
// means an occupied spot can never be removed even when a claim slips
// in between the caller's count and this statement.
func (r *SpotRepo) DeleteAvailable(ctx context.Context, lotID uint64, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	const q = `DELETE FROM parking_spots
	           WHERE lot_id = ? AND status = ?
	           ORDER BY id DESC LIMIT ?`
	res, err := r.db.ExecContext(ctx, q, lotID, model.SpotAvailable, n)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// OrphanedOccupied returns ids of spots marked occupied that have no
// active reservation.  Such rows only appear after a partial failure
// (the reservation was closed but freeing the spot failed, or a
// compensating rollback was lost); the reconciler flips them back.
func (r *SpotRepo) OrphanedOccupied(ctx context.Context) ([]uint64, error) {
	const q = `SELECT s.id
	           FROM parking_spots s
	           LEFT JOIN reservations r ON r.spot_id = s.id AND r.ended_at IS NULL
	           WHERE s.status = ? AND r.id IS NULL`
	rows, err := r.db.QueryContext(ctx, q, model.SpotOccupied)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// LotOf returns the owning lot id of a spot.
func (r *SpotRepo) LotOf(ctx context.Context, spotID uint64) (uint64, error) {
	const q = `SELECT lot_id FROM parking_spots WHERE id = ?`
	var lotID uint64
	err := r.db.QueryRowContext(ctx, q, spotID).Scan(&lotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSpotNotFound
		}
		return 0, err
	}
	return lotID, nil
}
