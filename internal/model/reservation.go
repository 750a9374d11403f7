package model

import "time"

// Reservation records a user's time-bounded claim on a single spot.
// EndedAt is nil while the vehicle is parked; a reservation with a
// nil EndedAt is the only active one its spot may have.  The hourly
// rate is captured from the lot at booking time so later price edits
// never change what an ongoing stay will be billed.  Cost stays nil
// until release and keeps full float64 precision; rounding happens
// only at the presentation edge.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who booked the spot.
//  SpotID      – spot being occupied.
//  VehicleNo   – licence plate or other vehicle identifier.
//  RatePerHour – hourly rate captured at booking time.
//  StartedAt   – booking timestamp.
//  EndedAt     – release timestamp (nil while active).
//  Cost        – computed charge (nil until release).
type Reservation struct {
	ID          uint64     `json:"id"`            // reservations.id
	UserID      uint64     `json:"user_id"`       // reservations.user_id
	SpotID      uint64     `json:"spot_id"`       // reservations.spot_id
	VehicleNo   string     `json:"vehicle_no"`    // reservations.vehicle_no
	RatePerHour float64    `json:"rate_per_hour"` // reservations.rate_per_hour
	StartedAt   time.Time  `json:"started_at"`    // reservations.started_at
	EndedAt     *time.Time `json:"ended_at"`      // reservations.ended_at (nullable)
	Cost        *float64   `json:"cost"`          // reservations.cost (nullable)
}

// Active reports whether the reservation still occupies its spot.
func (r *Reservation) Active() bool { return r.EndedAt == nil }
