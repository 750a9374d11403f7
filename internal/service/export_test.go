package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maytri315/parking-app/internal/model"
)

func TestWriteCSV(t *testing.T) {
	ctx := context.Background()
	store := newFakeReservationStore()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	closed := &model.Reservation{UserID: 1, SpotID: 3, VehicleNo: "KA-01-0001", RatePerHour: 10, StartedAt: start}
	require.NoError(t, store.Create(ctx, closed))
	require.NoError(t, store.MarkReleased(ctx, closed.ID, start.Add(90*time.Minute), 15))

	active := &model.Reservation{UserID: 1, SpotID: 4, VehicleNo: "KA-01-0002", RatePerHour: 12, StartedAt: start.Add(2 * time.Hour)}
	require.NoError(t, store.Create(ctx, active))

	// other users never leak into the file
	require.NoError(t, store.Create(ctx, &model.Reservation{UserID: 2, SpotID: 5, VehicleNo: "XX-00-0000", StartedAt: start}))

	var buf bytes.Buffer
	exp := NewExport(store, t.TempDir())
	require.NoError(t, exp.WriteCSV(ctx, 1, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two reservations")

	assert.Equal(t, []string{"reservation_id", "spot_id", "vehicle_no", "rate_per_hour", "started_at", "ended_at", "cost"}, rows[0])

	// newest first: the active stay precedes the closed one
	assert.Equal(t, "KA-01-0002", rows[1][2])
	assert.Empty(t, rows[1][5])
	assert.Empty(t, rows[1][6])

	assert.Equal(t, "KA-01-0001", rows[2][2])
	assert.Equal(t, "2026-03-01T08:00:00Z", rows[2][4])
	assert.Equal(t, "2026-03-01T09:30:00Z", rows[2][5])
	assert.Equal(t, "15.00", rows[2][6])
}

func TestExportWritesFile(t *testing.T) {
	ctx := context.Background()
	store := newFakeReservationStore()
	require.NoError(t, store.Create(ctx, &model.Reservation{
		UserID: 1, SpotID: 1, VehicleNo: "KA-01-0001", RatePerHour: 10, StartedAt: time.Now().UTC(),
	}))

	exp := NewExport(store, t.TempDir())
	path, err := exp.Export(ctx, 1)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
