package service

import (
	"context"

	"github.com/maytri315/parking-app/internal/cache"
)

// Availability maintains the invariant "available spots = spots not
// currently occupied".  It is the only component that transitions spot
// status, always through the store's guarded conditional updates, and
// it invalidates the read-side projection caches after every
// transition so cached counts never outlive a write.
type Availability struct {
	spots SpotStore
	cache Invalidator
}

// NewAvailability constructs the engine.  cache may be nil when redis
// is unavailable.
func NewAvailability(spots SpotStore, cache Invalidator) *Availability {
	return &Availability{spots: spots, cache: cache}
}

// ClaimSpot atomically claims one free spot in the lot and returns its
// id.  Returns repository.ErrNoAvailableSpot when the lot is full at
// the instant of selection; concurrent callers never receive the same
// spot.
func (a *Availability) ClaimSpot(ctx context.Context, lotID uint64) (uint64, error) {
	spotID, err := a.spots.ClaimFree(ctx, lotID)
	if err != nil {
		return 0, err
	}
	a.invalidate(ctx, lotID)
	return spotID, nil
}

// ReleaseSpot transitions an occupied spot back to available.  Calling
// it on an already-available spot is a no-op; an unknown id yields
// repository.ErrSpotNotFound.
func (a *Availability) ReleaseSpot(ctx context.Context, spotID uint64) error {
	lotID, lotErr := a.spots.LotOf(ctx, spotID)
	if err := a.spots.Release(ctx, spotID); err != nil {
		return err
	}
	if lotErr == nil {
		a.invalidate(ctx, lotID)
	}
	return nil
}

// AvailableCount returns the number of free spots in the lot.
func (a *Availability) AvailableCount(ctx context.Context, lotID uint64) (int, error) {
	return a.spots.CountAvailable(ctx, lotID)
}

func (a *Availability) invalidate(ctx context.Context, lotID uint64) {
	if a.cache == nil {
		return
	}
	a.cache.Del(ctx, cache.KeySpots(lotID), cache.KeyAvailability(lotID))
}
