package service

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidInterval is returned when a billing interval ends at or
// before its start.
var ErrInvalidInterval = errors.New("invalid billing interval")

// ComputeCost charges ratePerHour for the elapsed fraction of hours
// between start and end.  The result keeps full float64 precision;
// rounding to two decimals happens only at the presentation edge via
// Round2.
func ComputeCost(ratePerHour float64, start, end time.Time) (float64, error) {
	if !end.After(start) {
		return 0, ErrInvalidInterval
	}
	return ratePerHour * end.Sub(start).Hours(), nil
}

// Round2 rounds a monetary amount to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
