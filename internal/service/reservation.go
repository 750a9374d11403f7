package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/queue"
	"github.com/maytri315/parking-app/internal/repository"
)

// ReleaseResult is what the lifecycle manager hands back when a stay
// ends: how long the vehicle was parked and the full-precision charge.
type ReleaseResult struct {
	Duration time.Duration
	Cost     float64
}

// Reservations orchestrates the reservation lifecycle: a booking
// claims a spot through the availability engine and inserts the
// reservation record; a release closes the record, bills it and frees
// the spot.  Each reservation moves through exactly one forward path
// (active, then released) and is never deleted.
type Reservations struct {
	lots     LotStore
	store    ReservationStore
	users    UserStore
	avail    *Availability
	notifier Notifier
	now      func() time.Time
}

// NewReservations wires the lifecycle manager.  users and notifier may
// be nil; notifications are then skipped.
func NewReservations(lots LotStore, store ReservationStore, users UserStore, avail *Availability, notifier Notifier) *Reservations {
	return &Reservations{
		lots:     lots,
		store:    store,
		users:    users,
		avail:    avail,
		notifier: notifier,
		now:      time.Now,
	}
}

// Reserve books one free spot in the lot for the user.  The lot's
// current hourly rate is captured into the reservation so later price
// edits do not affect this stay.  Returns repository.ErrLotNotFound
// for an unknown lot and repository.ErrNoAvailableSpot when the lot is
// full; the latter is a declined booking, not a fault.
//
// The claim and the insert form one logical unit: when the insert
// fails after a successful claim, the spot is rolled back to available
// as a compensating action.  A failed rollback is logged as an
// inconsistency and left to the reconciler; it is never dropped
// silently.
func (s *Reservations) Reserve(ctx context.Context, userID, lotID uint64, vehicleNo string) (*model.Reservation, error) {
	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	spotID, err := s.avail.ClaimSpot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	res := &model.Reservation{
		UserID:      userID,
		SpotID:      spotID,
		VehicleNo:   vehicleNo,
		RatePerHour: lot.PricePerHour,
		StartedAt:   s.now().UTC(),
	}
	if err := s.store.Create(ctx, res); err != nil {
		if rbErr := s.avail.ReleaseSpot(ctx, spotID); rbErr != nil {
			log.Printf("reservations: INCONSISTENCY spot %d left occupied after failed insert (rollback error: %v); awaiting reconciliation", spotID, rbErr)
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.notify(ctx, queue.Notification{
		Kind:          queue.KindSpotReserved,
		UserID:        userID,
		Email:         s.emailOf(ctx, userID),
		Message:       fmt.Sprintf("Spot %d reserved at %s for vehicle %s", spotID, lot.Name, vehicleNo),
		ReservationID: res.ID,
		LotID:         lotID,
		SpotID:        spotID,
		OccurredAt:    res.StartedAt.Format(time.RFC3339),
	})
	return res, nil
}

// Release ends the reservation on behalf of its owner.  A reservation
// belonging to another user is reported as not found so existence is
// never revealed across accounts.  The end timestamp and cost are set
// exactly once; a repeat release returns repository.ErrAlreadyReleased
// and leaves the stored cost untouched.
//
// If freeing the spot fails after the reservation is closed, the spot
// stays occupied with no active reservation.  That divergence is
// logged and repaired by the reconciliation pass.
func (s *Reservations) Release(ctx context.Context, reservationID, userID uint64) (*ReleaseResult, error) {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, repository.ErrReservationNotFound
	}
	if !res.Active() {
		return nil, repository.ErrAlreadyReleased
	}

	endedAt := s.now().UTC()
	cost, err := ComputeCost(res.RatePerHour, res.StartedAt, endedAt)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkReleased(ctx, res.ID, endedAt, cost); err != nil {
		// a concurrent release may have won; ErrAlreadyReleased passes through
		return nil, err
	}
	if err := s.avail.ReleaseSpot(ctx, res.SpotID); err != nil {
		log.Printf("reservations: INCONSISTENCY reservation %d released but spot %d still occupied: %v; awaiting reconciliation", res.ID, res.SpotID, err)
	}

	s.notify(ctx, queue.Notification{
		Kind:          queue.KindSpotReleased,
		UserID:        userID,
		Email:         s.emailOf(ctx, userID),
		Message:       fmt.Sprintf("Spot %d released after %s", res.SpotID, endedAt.Sub(res.StartedAt).Truncate(time.Second)),
		ReservationID: res.ID,
		SpotID:        res.SpotID,
		Cost:          &cost,
		OccurredAt:    endedAt.Format(time.RFC3339),
	})
	return &ReleaseResult{Duration: endedAt.Sub(res.StartedAt), Cost: cost}, nil
}

// ListForUser returns the user's reservations, most recent first.
func (s *Reservations) ListForUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Reservations) notify(ctx context.Context, n queue.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, n)
}

func (s *Reservations) emailOf(ctx context.Context, userID uint64) string {
	if s.users == nil {
		return ""
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Email
}
