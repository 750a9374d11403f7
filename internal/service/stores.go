// Package service implements the reservation core: the availability
// engine, the reservation lifecycle manager, billing, lot
// administration and the reconciliation pass.  Every collaborator is
// injected through the narrow interfaces below so the core carries no
// global handles and the tests can run against in-memory fakes.
package service

import (
	"context"
	"time"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/queue"
)

// LotStore persists parking lots.  Implemented by repository.LotRepo.
type LotStore interface {
	Create(ctx context.Context, l *model.Lot) error
	GetByID(ctx context.Context, id uint64) (*model.Lot, error)
	List(ctx context.Context) ([]model.Lot, error)
	Update(ctx context.Context, l *model.Lot) error
	UpdateSpotCount(ctx context.Context, lotID uint64, total int) error
	Delete(ctx context.Context, lotID uint64) error
}

// SpotStore persists parking spots.  Implemented by repository.SpotRepo.
// ClaimFree and Release are the conditional status transitions; only
// the availability engine (and the reconciler through it) calls them.
type SpotStore interface {
	CreateBulk(ctx context.Context, lotID uint64, n int) error
	ClaimFree(ctx context.Context, lotID uint64) (uint64, error)
	Release(ctx context.Context, spotID uint64) error
	CountAvailable(ctx context.Context, lotID uint64) (int, error)
	CountOccupied(ctx context.Context, lotID uint64) (int, error)
	ListByLot(ctx context.Context, lotID uint64) ([]model.Spot, error)
	DeleteAvailable(ctx context.Context, lotID uint64, n int) (int, error)
	OrphanedOccupied(ctx context.Context) ([]uint64, error)
	LotOf(ctx context.Context, spotID uint64) (uint64, error)
}

// ReservationStore persists reservations.  Implemented by
// repository.ReservationRepo.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	MarkReleased(ctx context.Context, id uint64, endedAt time.Time, cost float64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	HasActive(ctx context.Context, userID uint64) (bool, error)
	SummaryForUser(ctx context.Context, userID uint64, from, to time.Time) (int, float64, error)
}

// UserStore resolves user references for notifications and reports.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListByRole(ctx context.Context, role string) ([]model.User, error)
}

// Invalidator drops projection-cache keys after a write.  Implemented
// by cache.Store; a nil value disables invalidation.
type Invalidator interface {
	Del(ctx context.Context, keys ...string)
}

// Notifier queues a user-facing notification.  Delivery is
// fire-and-forget: implementations must never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, n queue.Notification)
}
