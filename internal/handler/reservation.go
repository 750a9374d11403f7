package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/queue"
	"github.com/maytri315/parking-app/internal/service"
)

// ExportRequester queues an asynchronous CSV export.  Implemented by
// queue.Dispatcher.
type ExportRequester interface {
	RequestExport(ctx context.Context, req queue.ExportRequest)
}

// ReservationHandler exposes the user-facing reservation lifecycle.
type ReservationHandler struct {
	Svc     *service.Reservations
	Users   service.UserStore
	Exports ExportRequester
}

func NewReservationHandler(svc *service.Reservations, users service.UserStore, exports ExportRequester) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Users: users, Exports: exports}
}

type reserveReq struct {
	LotID     uint64 `json:"lot_id"`
	VehicleNo string `json:"vehicle_no"`
}

// Reserve books one free spot in the requested lot.  The spot is picked
// by the availability engine; clients never choose a spot id.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.VehicleNo = strings.TrimSpace(req.VehicleNo)
	if req.LotID == 0 || req.VehicleNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lot_id and vehicle_no required"})
	}

	res, err := h.Svc.Reserve(c.Request().Context(), uid, req.LotID, req.VehicleNo)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Release ends the caller's reservation and returns the billed cost,
// rounded for display.
func (h *ReservationHandler) Release(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	out, err := h.Svc.Release(c.Request().Context(), id, uid)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id":   id,
		"duration_seconds": int64(out.Duration.Seconds()),
		"cost":             service.Round2(out.Cost),
	})
}

// ListMine returns the caller's reservation history, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Svc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// ExportCSV queues a CSV export of the caller's history and answers
// 202 immediately; the file is written by the export consumer.
func (h *ReservationHandler) ExportCSV(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := queue.ExportRequest{
		UserID:      uid,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if h.Users != nil {
		if u, err := h.Users.GetByID(c.Request().Context(), uid); err == nil {
			req.Email = u.Email
		}
	}
	h.Exports.RequestExport(c.Request().Context(), req)
	return c.JSON(http.StatusAccepted, echo.Map{"status": "export queued"})
}
