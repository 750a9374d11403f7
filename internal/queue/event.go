// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.  Delivery is strictly
// fire-and-forget from the core's point of view: a broker failure is logged
// and the parking operation that triggered it proceeds unchanged.
package queue

// Notification kinds understood by the notification consumer.
const (
	KindSpotReserved  = "spot.reserved"
	KindSpotReleased  = "spot.released"
	KindUserReminder  = "user.reminder"
	KindMonthlyReport = "report.monthly"
)

// Notification is published whenever something a user should hear about
// happens: a confirmed booking, a release with its final cost, a daily
// reminder nudge or a monthly spending report.  It carries enough
// information for downstream consumers to deliver the message without
// querying the primary database.
type Notification struct {
	Kind          string   `json:"kind"`
	UserID        uint64   `json:"user_id"`
	Email         string   `json:"email,omitempty"`
	Message       string   `json:"message"`
	ReservationID uint64   `json:"reservation_id,omitempty"`
	LotID         uint64   `json:"lot_id,omitempty"`
	SpotID        uint64   `json:"spot_id,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	OccurredAt    string   `json:"occurred_at"`
}

// ExportRequest asks the export consumer to build a CSV of one user's
// reservation history.  The HTTP layer answers 202 as soon as this is
// queued; the file is produced out of band.
type ExportRequest struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email,omitempty"`
	RequestedAt string `json:"requested_at"`
}
