package model

import "time"

// Lot describes a parking facility.  Every lot owns a pool of spots
// whose row count always equals NumberOfSpots; resizing a lot creates
// or deletes spot rows to keep that invariant.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the location.
//  PricePerHour  – hourly rate charged for a spot (non-negative).
//  Address       – street address.
//  PinCode       – postal code.
//  NumberOfSpots – total number of spots owned by this lot.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Lot struct {
	ID            uint64    `json:"id"`              // parking_lots.id
	Name          string    `json:"name"`            // parking_lots.name
	PricePerHour  float64   `json:"price_per_hour"`  // parking_lots.price_per_hour
	Address       string    `json:"address"`         // parking_lots.address
	PinCode       string    `json:"pin_code"`        // parking_lots.pin_code
	NumberOfSpots int       `json:"number_of_spots"` // parking_lots.number_of_spots
	CreatedAt     time.Time `json:"created_at"`      // parking_lots.created_at
	UpdatedAt     time.Time `json:"updated_at"`      // parking_lots.updated_at
}
