package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/service"
)

// LotAdminHandler exposes the admin-only lot CRUD.  Every route is
// guarded by RequireRole(ADMIN) in the router.
type LotAdminHandler struct {
	Svc *service.LotAdmin
}

func NewLotAdminHandler(svc *service.LotAdmin) *LotAdminHandler {
	return &LotAdminHandler{Svc: svc}
}

type lotReq struct {
	Name          string  `json:"name"`
	PricePerHour  float64 `json:"price_per_hour"`
	Address       string  `json:"address"`
	PinCode       string  `json:"pin_code"`
	NumberOfSpots int     `json:"number_of_spots"`
}

func (r *lotReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.PinCode = strings.TrimSpace(r.PinCode)
	switch {
	case r.Name == "":
		return "name required"
	case r.PricePerHour < 0:
		return "price_per_hour must be non-negative"
	case r.NumberOfSpots < 0:
		return "number_of_spots must be non-negative"
	}
	return ""
}

// Create registers a new lot and seeds its spot pool.
func (h *LotAdminHandler) Create(c echo.Context) error {
	var req lotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	lot := &model.Lot{
		Name:          req.Name,
		PricePerHour:  req.PricePerHour,
		Address:       req.Address,
		PinCode:       req.PinCode,
		NumberOfSpots: req.NumberOfSpots,
	}
	if err := h.Svc.CreateLot(c.Request().Context(), lot); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, lot)
}

// Get returns one lot.
func (h *LotAdminHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	lot, err := h.Svc.GetLot(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, lot)
}

// Update edits lot attributes and resizes the spot pool.  Shrinking
// below the number of currently occupied spots is rejected.
func (h *LotAdminHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	var req lotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	lot := &model.Lot{
		ID:            id,
		Name:          req.Name,
		PricePerHour:  req.PricePerHour,
		Address:       req.Address,
		PinCode:       req.PinCode,
		NumberOfSpots: req.NumberOfSpots,
	}
	if err := h.Svc.UpdateLot(c.Request().Context(), lot); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, lot)
}

// Delete removes an empty lot together with its spots.
func (h *LotAdminHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	if err := h.Svc.DeleteLot(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
