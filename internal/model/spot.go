package model

import "time"

// Spot status values.  A spot is either free to claim or tied to an
// active reservation.  Only the availability engine writes this field.
const (
	SpotAvailable = "AVAILABLE"
	SpotOccupied  = "OCCUPIED"
)

// Spot is one allocatable parking space inside a lot.
type Spot struct {
	ID        uint64    `json:"id"`         // parking_spots.id
	LotID     uint64    `json:"lot_id"`     // parking_spots.lot_id
	Status    string    `json:"status"`     // parking_spots.status (AVAILABLE | OCCUPIED)
	CreatedAt time.Time `json:"created_at"` // parking_spots.created_at
	UpdatedAt time.Time `json:"updated_at"` // parking_spots.updated_at
}
