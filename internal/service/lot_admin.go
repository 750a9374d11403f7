package service

import (
	"context"
	"fmt"
	"log"

	"github.com/maytri315/parking-app/internal/cache"
	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/repository"
)

// LotAdmin covers the administrative lot operations: creating a lot
// with its spot pool, updating its fields, resizing the pool and
// deleting the lot.  Resizes only ever touch available spots; an
// occupied spot can neither be deleted nor have its lot removed.
type LotAdmin struct {
	lots  LotStore
	spots SpotStore
	cache Invalidator
}

// NewLotAdmin wires the admin service.  cache may be nil.
func NewLotAdmin(lots LotStore, spots SpotStore, cache Invalidator) *LotAdmin {
	return &LotAdmin{lots: lots, spots: spots, cache: cache}
}

// CreateLot inserts the lot and bulk-creates its spots, all available.
// When spot creation fails after the lot row landed, the lot is
// deleted again so a half-built pool never goes live.
func (s *LotAdmin) CreateLot(ctx context.Context, lot *model.Lot) error {
	if err := s.lots.Create(ctx, lot); err != nil {
		return err
	}
	if err := s.spots.CreateBulk(ctx, lot.ID, lot.NumberOfSpots); err != nil {
		if delErr := s.lots.Delete(ctx, lot.ID); delErr != nil {
			log.Printf("lots: INCONSISTENCY lot %d created without spots (cleanup error: %v)", lot.ID, delErr)
		}
		return fmt.Errorf("create spots: %w", err)
	}
	s.invalidate(ctx, lot.ID)
	return nil
}

// GetLot returns one lot.
func (s *LotAdmin) GetLot(ctx context.Context, lotID uint64) (*model.Lot, error) {
	return s.lots.GetByID(ctx, lotID)
}

// ListLots returns all lots.
func (s *LotAdmin) ListLots(ctx context.Context) ([]model.Lot, error) {
	return s.lots.List(ctx)
}

// ListSpots returns the spot grid of a lot.
func (s *LotAdmin) ListSpots(ctx context.Context, lotID uint64) ([]model.Spot, error) {
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return nil, err
	}
	return s.spots.ListByLot(ctx, lotID)
}

// UpdateLot stores the lot's new field values and reshapes the spot
// pool when the requested total differs from the current one.  Growing
// adds available spots; shrinking removes only available spots and
// fails with repository.ErrInsufficientAvailableSpots when too few are
// free.  lot.ID selects the row; all other fields are taken as the
// desired state.
func (s *LotAdmin) UpdateLot(ctx context.Context, lot *model.Lot) error {
	cur, err := s.lots.GetByID(ctx, lot.ID)
	if err != nil {
		return err
	}

	switch {
	case lot.NumberOfSpots > cur.NumberOfSpots:
		if err := s.spots.CreateBulk(ctx, lot.ID, lot.NumberOfSpots-cur.NumberOfSpots); err != nil {
			return fmt.Errorf("grow spot pool: %w", err)
		}
	case lot.NumberOfSpots < cur.NumberOfSpots:
		remove := cur.NumberOfSpots - lot.NumberOfSpots
		avail, err := s.spots.CountAvailable(ctx, lot.ID)
		if err != nil {
			return err
		}
		if avail < remove {
			return repository.ErrInsufficientAvailableSpots
		}
		deleted, err := s.spots.DeleteAvailable(ctx, lot.ID, remove)
		if err != nil {
			return fmt.Errorf("shrink spot pool: %w", err)
		}
		if deleted < remove {
			// a claim raced the shrink and took one of the spots we
			// counted on; keep the lot total honest for the rows that
			// did go away and refuse the rest
			if cntErr := s.lots.UpdateSpotCount(ctx, lot.ID, cur.NumberOfSpots-deleted); cntErr != nil {
				log.Printf("lots: INCONSISTENCY lot %d spot count stale after partial shrink: %v", lot.ID, cntErr)
			}
			s.invalidate(ctx, lot.ID)
			return repository.ErrInsufficientAvailableSpots
		}
	}

	if err := s.lots.Update(ctx, lot); err != nil {
		// the pool was already reshaped; undo or repair so the row
		// count never silently drifts from the stored total
		switch {
		case lot.NumberOfSpots > cur.NumberOfSpots:
			delta := lot.NumberOfSpots - cur.NumberOfSpots
			deleted, delErr := s.spots.DeleteAvailable(ctx, lot.ID, delta)
			if delErr != nil || deleted < delta {
				log.Printf("lots: INCONSISTENCY lot %d keeps %d extra spot rows after failed update (cleanup removed %d: %v)", lot.ID, delta, deleted, delErr)
			}
		case lot.NumberOfSpots < cur.NumberOfSpots:
			if cntErr := s.lots.UpdateSpotCount(ctx, lot.ID, lot.NumberOfSpots); cntErr != nil {
				log.Printf("lots: INCONSISTENCY lot %d spot count stale after shrink with failed update: %v", lot.ID, cntErr)
			}
		}
		s.invalidate(ctx, lot.ID)
		return err
	}
	s.invalidate(ctx, lot.ID)
	return nil
}

// DeleteLot removes the lot and all of its spots as one atomic unit.
// Fails with repository.ErrLotHasOccupiedSpots while any vehicle is
// parked in it.
func (s *LotAdmin) DeleteLot(ctx context.Context, lotID uint64) error {
	if err := s.lots.Delete(ctx, lotID); err != nil {
		return err
	}
	s.invalidate(ctx, lotID)
	return nil
}

func (s *LotAdmin) invalidate(ctx context.Context, lotID uint64) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, cache.KeyLots, cache.KeySpots(lotID), cache.KeyAvailability(lotID))
}
