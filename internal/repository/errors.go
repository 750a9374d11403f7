// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// services and handlers to distinguish between different failure
// scenarios without string matching.  Domain outcomes like a full lot
// (ErrNoAvailableSpot) are deliberately modelled as sentinels too: they
// are expected results, not infrastructure faults.
package repository

import "errors"

// ErrLotNotFound is returned when a lot lookup yields no rows.
var ErrLotNotFound = errors.New("lot not found")

// ErrSpotNotFound is returned when a spot lookup yields no rows.
var ErrSpotNotFound = errors.New("spot not found")

// ErrReservationNotFound is returned when a reservation lookup yields no
// rows, or when the reservation belongs to a different user.  Handlers
// should translate this into an HTTP 404 response in both cases so the
// existence of other users' reservations is never revealed.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNoAvailableSpot is returned by a claim when the lot has no free
// spot at the instant of selection.  It maps to a declined booking,
// not a server fault.
var ErrNoAvailableSpot = errors.New("no available spot")

// ErrAlreadyReleased is returned when releasing a reservation whose end
// timestamp is already set.
var ErrAlreadyReleased = errors.New("reservation already released")

// ErrInsufficientAvailableSpots is returned when a lot resize would need
// to remove more spots than are currently available.  Occupied spots
// are never deleted.
var ErrInsufficientAvailableSpots = errors.New("insufficient available spots")

// ErrLotHasOccupiedSpots is returned when deleting a lot that still has
// at least one occupied spot.
var ErrLotHasOccupiedSpots = errors.New("lot has occupied spots")
