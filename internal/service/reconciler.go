package service

import (
	"context"
	"log"
)

// Reconciler repairs the one divergence the lifecycle can leave
// behind: a spot marked occupied whose reservation is already closed
// (or was never inserted).  Such rows appear only after a partial
// failure; flipping them back to available restores the availability
// invariant.  The scheduler runs this pass periodically.
type Reconciler struct {
	spots SpotStore
	avail *Availability
}

// NewReconciler wires the reconciliation pass.
func NewReconciler(spots SpotStore, avail *Availability) *Reconciler {
	return &Reconciler{spots: spots, avail: avail}
}

// Run finds every occupied spot without an active reservation and
// releases it through the availability engine.  Returns the number of
// spots repaired.  Individual failures are logged and skipped so one
// bad row does not stall the rest of the pass.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	ids, err := r.spots.OrphanedOccupied(ctx)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, id := range ids {
		if err := r.avail.ReleaseSpot(ctx, id); err != nil {
			log.Printf("reconciler: failed to release orphaned spot %d: %v", id, err)
			continue
		}
		log.Printf("reconciler: spot %d had no active reservation; reset to available", id)
		repaired++
	}
	return repaired, nil
}
