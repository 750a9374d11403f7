package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/cache"
	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/service"
)

// LotBrowseHandler serves the read paths every signed-in user gets:
// lot listings, spot grids and live availability counts.  Responses
// are cached in redis and the write paths invalidate the keys, so the
// handlers read through the cache first.
type LotBrowseHandler struct {
	Svc   *service.LotAdmin
	Avail *service.Availability
	Cache *cache.Store
}

func NewLotBrowseHandler(svc *service.LotAdmin, avail *service.Availability, store *cache.Store) *LotBrowseHandler {
	return &LotBrowseHandler{Svc: svc, Avail: avail, Cache: store}
}

// List returns every lot.
func (h *LotBrowseHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var lots []model.Lot
	if h.Cache.GetJSON(ctx, cache.KeyLots, &lots) {
		return c.JSON(http.StatusOK, lots)
	}
	lots, err := h.Svc.ListLots(ctx)
	if err != nil {
		return httpError(c, err)
	}
	h.Cache.SetJSON(ctx, cache.KeyLots, lots)
	return c.JSON(http.StatusOK, lots)
}

// Spots returns the spot grid of one lot.
func (h *LotBrowseHandler) Spots(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	ctx := c.Request().Context()

	var spots []model.Spot
	if h.Cache.GetJSON(ctx, cache.KeySpots(id), &spots) {
		return c.JSON(http.StatusOK, spots)
	}
	spots, err := h.Svc.ListSpots(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	h.Cache.SetJSON(ctx, cache.KeySpots(id), spots)
	return c.JSON(http.StatusOK, spots)
}

// Availability returns how many spots of one lot are free right now.
func (h *LotBrowseHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	ctx := c.Request().Context()

	type availResp struct {
		LotID     uint64 `json:"lot_id"`
		Available int    `json:"available"`
	}

	var resp availResp
	if h.Cache.GetJSON(ctx, cache.KeyAvailability(id), &resp) {
		return c.JSON(http.StatusOK, resp)
	}
	// Lot existence check first so an unknown id is 404, not a zero count.
	if _, err := h.Svc.GetLot(ctx, id); err != nil {
		return httpError(c, err)
	}
	n, err := h.Avail.AvailableCount(ctx, id)
	if err != nil {
		return httpError(c, err)
	}
	resp = availResp{LotID: id, Available: n}
	h.Cache.SetJSON(ctx, cache.KeyAvailability(id), resp)
	return c.JSON(http.StatusOK, resp)
}
