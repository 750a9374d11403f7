package repository // repository defines data access for parking lots

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maytri315/parking-app/internal/model"
)

// LotRepo provides methods to work with parking lots in the database.
type LotRepo struct {
	db *sql.DB
}

// NewLotRepo constructs a LotRepo with the given DB handle.
func NewLotRepo(db *sql.DB) *LotRepo { return &LotRepo{db: db} }

// Create inserts a lot record.  On success the lot's ID is populated.
// Spot rows are created separately by SpotRepo.CreateBulk so that the
// availability engine stays the only component shaping spot state.
func (r *LotRepo) Create(ctx context.Context, l *model.Lot) error {
	const q = `INSERT INTO parking_lots (name, price_per_hour, address, pin_code, number_of_spots)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.PricePerHour, l.Address, l.PinCode, l.NumberOfSpots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID retrieves a lot by its id.
func (r *LotRepo) GetByID(ctx context.Context, id uint64) (*model.Lot, error) {
	const q = `SELECT id, name, price_per_hour, address, pin_code, number_of_spots, created_at, updated_at
	           FROM parking_lots WHERE id = ?`
	var l model.Lot
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.Name, &l.PricePerHour, &l.Address, &l.PinCode, &l.NumberOfSpots,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all lots ordered by id.
func (r *LotRepo) List(ctx context.Context) ([]model.Lot, error) {
	const q = `SELECT id, name, price_per_hour, address, pin_code, number_of_spots, created_at, updated_at
	           FROM parking_lots ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := make([]model.Lot, 0)
	for rows.Next() {
		var l model.Lot
		if err := rows.Scan(
			&l.ID, &l.Name, &l.PricePerHour, &l.Address, &l.PinCode, &l.NumberOfSpots,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lots = append(lots, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

// Update rewrites the lot's descriptive fields and spot count.  The
// caller is responsible for reshaping the spot pool first; this method
// only stores the numbers.  Returns ErrLotNotFound when no row matches.
func (r *LotRepo) Update(ctx context.Context, l *model.Lot) error {
	const q = `UPDATE parking_lots
	           SET name = ?, price_per_hour = ?, address = ?, pin_code = ?, number_of_spots = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.PricePerHour, l.Address, l.PinCode, l.NumberOfSpots, l.ID)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when the values are unchanged, so a
	// zero here is only a miss if the row truly does not exist.
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM parking_lots WHERE id = ?`, l.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrLotNotFound
			}
			return err
		}
	}
	return nil
}

// UpdateSpotCount stores a new total after a resize reshaped the pool.
func (r *LotRepo) UpdateSpotCount(ctx context.Context, lotID uint64, total int) error {
	const q = `UPDATE parking_lots SET number_of_spots = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, total, lotID)
	return err
}

// Delete removes a lot and all of its spots as one atomic unit.  The
// occupancy check runs inside the same transaction as the deletes so a
// claim racing the delete either lands before it (blocking the delete)
// or finds the lot gone.  Returns ErrLotHasOccupiedSpots when any owned
// spot is occupied and ErrLotNotFound when the lot does not exist.
func (r *LotRepo) Delete(ctx context.Context, lotID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM parking_lots WHERE id = ? FOR UPDATE`, lotID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLotNotFound
		}
		return err
	}

	var occupied int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parking_spots WHERE lot_id = ? AND status = ? FOR UPDATE`,
		lotID, model.SpotOccupied).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return ErrLotHasOccupiedSpots
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE lot_id = ?`, lotID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = ?`, lotID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
