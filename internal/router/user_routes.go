package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/handler"
	"github.com/maytri315/parking-app/internal/middleware"
	"github.com/maytri315/parking-app/internal/model"
)

// RegisterBrowse registers the read-only lot endpoints shared by both
// roles: the lot listing, a lot's spot grid and its live availability
// count.
func RegisterBrowse(e *echo.Echo, b *handler.LotBrowseHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.GET("/lots", b.List)
	g.GET("/lots/:id/spots", b.Spots)
	g.GET("/lots/:id/availability", b.Availability)
}

// RegisterUser registers the reservation lifecycle endpoints.  All
// routes require a valid JWT with the USER role; the booked spot is
// always chosen by the server.
func RegisterUser(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser),
	)
	g.POST("/reserve", h.Reserve)
	g.POST("/reservations/:id/release", h.Release)
	g.GET("/my-reservations", h.ListMine)
	// Queues an asynchronous CSV export of the caller's history.
	g.POST("/export", h.ExportCSV)
}
