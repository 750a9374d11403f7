package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maytri315/parking-app/internal/repository"
	"github.com/maytri315/parking-app/internal/service"
)

func testContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrLotNotFound, http.StatusNotFound},
		{repository.ErrSpotNotFound, http.StatusNotFound},
		{repository.ErrReservationNotFound, http.StatusNotFound},
		{repository.ErrNoAvailableSpot, http.StatusConflict},
		{repository.ErrAlreadyReleased, http.StatusConflict},
		{repository.ErrInsufficientAvailableSpots, http.StatusConflict},
		{repository.ErrLotHasOccupiedSpots, http.StatusConflict},
		{service.ErrInvalidInterval, http.StatusUnprocessableEntity},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c := testContext(t)
		require.NoError(t, httpError(c, tc.err))
		assert.Equal(t, tc.code, c.Response().Status, "error %v", tc.err)
	}
}

func TestGetUserID(t *testing.T) {
	for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
		c := testContext(t)
		c.Set("user_id", v)
		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got)
	}

	c := testContext(t)
	_, err := getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c := testContext(t)
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, ok := pathID(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c := testContext(t)
		c.SetParamNames("id")
		c.SetParamValues(bad)
		_, ok := pathID(c, "id")
		assert.False(t, ok, "value %q", bad)
	}
}
