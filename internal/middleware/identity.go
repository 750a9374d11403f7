package middleware

// identity.go holds helpers shared by the cache and rate limit
// middleware for keying entries per user.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID returns a string form of the authenticated user's ID taken
// from the "user_id" context value set by JWTAuth, or "guest" when the
// request is anonymous.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "guest"
	case string:
		if v == "" {
			return "guest"
		}
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	default:
		return "guest"
	}
}
