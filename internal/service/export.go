package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/maytri315/parking-app/internal/model"
)

// Export renders a user's full reservation history as CSV.  The HTTP
// layer only queues the request; the export consumer calls Export and
// the file lands under the configured directory.
type Export struct {
	reservations ReservationStore
	dir          string
	now          func() time.Time
}

// NewExport wires the exporter.  dir defaults to "exports".
func NewExport(reservations ReservationStore, dir string) *Export {
	if dir == "" {
		dir = "exports"
	}
	return &Export{reservations: reservations, dir: dir, now: time.Now}
}

// Export writes the CSV file and returns its path.
func (e *Export) Export(ctx context.Context, userID uint64) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", e.dir, err)
	}
	path := filepath.Join(e.dir, fmt.Sprintf("reservations_user%d_%d.csv", userID, e.now().UTC().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := e.WriteCSV(ctx, userID, f); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV streams the history to w, newest booking first.  Costs are
// rendered with two decimals; active reservations leave the end
// timestamp and cost columns empty.
func (e *Export) WriteCSV(ctx context.Context, userID uint64, w io.Writer) error {
	list, err := e.reservations.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"reservation_id", "spot_id", "vehicle_no", "rate_per_hour", "started_at", "ended_at", "cost"}); err != nil {
		return err
	}
	for _, r := range list {
		cw.Write(exportRow(r))
	}
	cw.Flush()
	return cw.Error()
}

func exportRow(r model.Reservation) []string {
	endedAt, cost := "", ""
	if r.EndedAt != nil {
		endedAt = r.EndedAt.Format(time.RFC3339)
	}
	if r.Cost != nil {
		cost = strconv.FormatFloat(Round2(*r.Cost), 'f', 2, 64)
	}
	return []string{
		strconv.FormatUint(r.ID, 10),
		strconv.FormatUint(r.SpotID, 10),
		r.VehicleNo,
		strconv.FormatFloat(r.RatePerHour, 'f', -1, 64),
		r.StartedAt.Format(time.RFC3339),
		endedAt,
		cost,
	}
}
