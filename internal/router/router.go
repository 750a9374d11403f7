package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/handler"
	"github.com/maytri315/parking-app/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth wires the auth endpoints.  Register, login, refresh and
// logout live under /v1/auth and need no session; /v1/me requires a
// valid access token with any known role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token (revokes every session)
	// or a refresh_token body (revokes that one), so it stays outside
	// the JWT group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
