package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/maytri315/parking-app/internal/repository"
	"github.com/maytri315/parking-app/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT middleware stores the claim untyped, so every numeric
// and string shape the token library may produce is accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// httpError maps core errors onto HTTP responses.  Missing resources
// are 404, state conflicts 409 and bad billing intervals 422; anything
// unrecognised is a plain 500 without internal detail.
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrLotNotFound),
		errors.Is(err, repository.ErrSpotNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNoAvailableSpot),
		errors.Is(err, repository.ErrAlreadyReleased),
		errors.Is(err, repository.ErrInsufficientAvailableSpots),
		errors.Is(err, repository.ErrLotHasOccupiedSpots):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInterval):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
