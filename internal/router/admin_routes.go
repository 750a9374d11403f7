package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/handler"
	"github.com/maytri315/parking-app/internal/middleware"
	"github.com/maytri315/parking-app/internal/model"
)

// RegisterAdmin registers lot management and user inspection.  Every
// route requires the ADMIN role; there is exactly one admin account,
// created at startup.
func RegisterAdmin(e *echo.Echo, lots *handler.LotAdminHandler, users *handler.UserAdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/lots", lots.Create)
	g.GET("/lots/:id", lots.Get)
	// Updating number_of_spots resizes the pool; shrinking is refused
	// while it would have to delete an occupied spot.
	g.PUT("/lots/:id", lots.Update)
	g.DELETE("/lots/:id", lots.Delete)
	g.GET("/users", users.List)
}
