package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maytri315/parking-app/internal/model"
)

// A crash between claiming a spot and inserting the reservation leaves
// the spot occupied with nothing pointing at it.  The reconciliation
// pass flips exactly those spots back and leaves live stays alone.
func TestReconcilerFreesOrphanedSpots(t *testing.T) {
	ctx := context.Background()

	base := newFakeSpotStore()
	store := newFakeReservationStore()
	spots := &fakeOrphanSpotStore{fakeSpotStore: base, reservations: store}
	require.NoError(t, spots.CreateBulk(ctx, 1, 4))

	// live stay on one spot
	liveSpot, err := spots.ClaimFree(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, &model.Reservation{
		UserID: 1, SpotID: liveSpot, VehicleNo: "KA-01-0001", StartedAt: time.Now().UTC(),
	}))

	// two orphans: claimed but never recorded
	_, err = spots.ClaimFree(ctx, 1)
	require.NoError(t, err)
	_, err = spots.ClaimFree(ctx, 1)
	require.NoError(t, err)

	avail := NewAvailability(spots, nil)
	rec := NewReconciler(spots, avail)

	repaired, err := rec.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	free, err := spots.CountAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, free)

	occ, err := spots.CountOccupied(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, occ, "spot with a live reservation must stay occupied")
}

func TestReconcilerNothingToRepair(t *testing.T) {
	ctx := context.Background()
	base := newFakeSpotStore()
	store := newFakeReservationStore()
	spots := &fakeOrphanSpotStore{fakeSpotStore: base, reservations: store}
	require.NoError(t, spots.CreateBulk(ctx, 1, 2))

	rec := NewReconciler(spots, NewAvailability(spots, nil))
	repaired, err := rec.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
