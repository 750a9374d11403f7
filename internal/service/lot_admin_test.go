package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/repository"
)

// recordingInvalidator captures cache keys dropped by the services.
type recordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingInvalidator) Del(_ context.Context, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

func newLotAdminWorld(t *testing.T) (*LotAdmin, *fakeSpotStore, *fakeLotStore, *recordingInvalidator) {
	t.Helper()
	spots := newFakeSpotStore()
	lots := newFakeLotStore(spots)
	inv := &recordingInvalidator{}
	return NewLotAdmin(lots, spots, inv), spots, lots, inv
}

func TestCreateLotSeedsSpotPool(t *testing.T) {
	svc, spots, _, inv := newLotAdminWorld(t)
	ctx := context.Background()

	lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 4}
	require.NoError(t, svc.CreateLot(ctx, lot))
	require.NotZero(t, lot.ID)

	n, err := spots.CountAvailable(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Contains(t, inv.keys, "lots")
}

func TestUpdateLotGrowsPool(t *testing.T) {
	svc, spots, _, _ := newLotAdminWorld(t)
	ctx := context.Background()

	lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 2}
	require.NoError(t, svc.CreateLot(ctx, lot))

	lot.NumberOfSpots = 5
	require.NoError(t, svc.UpdateLot(ctx, lot))

	n, err := spots.CountAvailable(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

// brokenUpdateLotStore makes Update fail on demand so resize cleanup
// paths can be driven.
type brokenUpdateLotStore struct {
	*fakeLotStore
	failUpdate bool
}

func (s *brokenUpdateLotStore) Update(ctx context.Context, lot *model.Lot) error {
	if s.failUpdate {
		return errors.New("lot update refused")
	}
	return s.fakeLotStore.Update(ctx, lot)
}

// A failed lot update after the pool already grew must not leave
// extra spot rows behind.
func TestUpdateLotGrowRolledBackOnUpdateFailure(t *testing.T) {
	ctx := context.Background()
	spots := newFakeSpotStore()
	lots := &brokenUpdateLotStore{fakeLotStore: newFakeLotStore(spots)}
	svc := NewLotAdmin(lots, spots, &recordingInvalidator{})

	lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 2}
	require.NoError(t, svc.CreateLot(ctx, lot))

	lots.failUpdate = true
	lot.NumberOfSpots = 5
	require.Error(t, svc.UpdateLot(ctx, lot))

	free, err := spots.CountAvailable(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, free, "spots added for the failed resize must be removed")

	stored, err := lots.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumberOfSpots)
}

func TestUpdateLotShrinkRepairsCountOnUpdateFailure(t *testing.T) {
	ctx := context.Background()
	spots := newFakeSpotStore()
	lots := &brokenUpdateLotStore{fakeLotStore: newFakeLotStore(spots)}
	svc := NewLotAdmin(lots, spots, &recordingInvalidator{})

	lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 5}
	require.NoError(t, svc.CreateLot(ctx, lot))

	lots.failUpdate = true
	lot.NumberOfSpots = 3
	require.Error(t, svc.UpdateLot(ctx, lot))

	// the spot rows were already trimmed, so the stored total follows
	free, err := spots.CountAvailable(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, free)

	stored, err := lots.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.NumberOfSpots)
}

// Shrinking removes only free spots; too few free spots refuse the
// whole resize.
func TestUpdateLotShrink(t *testing.T) {
	ctx := context.Background()

	t.Run("enough free spots", func(t *testing.T) {
		svc, spots, lots, _ := newLotAdminWorld(t)
		lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 5}
		require.NoError(t, svc.CreateLot(ctx, lot))
		_, err := spots.ClaimFree(ctx, lot.ID)
		require.NoError(t, err)

		lot.NumberOfSpots = 3
		require.NoError(t, svc.UpdateLot(ctx, lot))

		free, _ := spots.CountAvailable(ctx, lot.ID)
		occ, _ := spots.CountOccupied(ctx, lot.ID)
		assert.Equal(t, 2, free)
		assert.Equal(t, 1, occ)

		stored, err := lots.GetByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.NumberOfSpots)
	})

	t.Run("too many occupied", func(t *testing.T) {
		svc, spots, lots, _ := newLotAdminWorld(t)
		lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 5}
		require.NoError(t, svc.CreateLot(ctx, lot))
		for i := 0; i < 4; i++ {
			_, err := spots.ClaimFree(ctx, lot.ID)
			require.NoError(t, err)
		}

		lot.NumberOfSpots = 3
		err := svc.UpdateLot(ctx, lot)
		assert.ErrorIs(t, err, repository.ErrInsufficientAvailableSpots)

		// nothing was removed and the stored total is unchanged
		free, _ := spots.CountAvailable(ctx, lot.ID)
		assert.Equal(t, 1, free)
		stored, getErr := lots.GetByID(ctx, lot.ID)
		require.NoError(t, getErr)
		assert.Equal(t, 5, stored.NumberOfSpots)
	})
}

func TestDeleteLot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty lot removed with its spots", func(t *testing.T) {
		svc, spots, _, _ := newLotAdminWorld(t)
		lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 3}
		require.NoError(t, svc.CreateLot(ctx, lot))

		require.NoError(t, svc.DeleteLot(ctx, lot.ID))
		_, err := svc.GetLot(ctx, lot.ID)
		assert.ErrorIs(t, err, repository.ErrLotNotFound)

		listed, err := spots.ListByLot(ctx, lot.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("occupied lot refuses deletion", func(t *testing.T) {
		svc, spots, _, _ := newLotAdminWorld(t)
		lot := &model.Lot{Name: "Central", PricePerHour: 10, NumberOfSpots: 3}
		require.NoError(t, svc.CreateLot(ctx, lot))
		_, err := spots.ClaimFree(ctx, lot.ID)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.DeleteLot(ctx, lot.ID), repository.ErrLotHasOccupiedSpots)
		_, err = svc.GetLot(ctx, lot.ID)
		assert.NoError(t, err, "failed delete must leave the lot in place")
	})

	t.Run("unknown lot", func(t *testing.T) {
		svc, _, _, _ := newLotAdminWorld(t)
		assert.ErrorIs(t, svc.DeleteLot(ctx, 42), repository.ErrLotNotFound)
	})
}

func TestListSpotsUnknownLot(t *testing.T) {
	svc, _, _, _ := newLotAdminWorld(t)
	_, err := svc.ListSpots(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrLotNotFound)
}
