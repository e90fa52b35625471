package application

import (
	"errors"
	"net/http"

	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

var (
	// ErrInvalidInput rejects malformed payloads before any store access.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized covers bad or missing tokens and device mismatches
	// outside the recovery window.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLimitReached signals a per-user resource cap (places).
	ErrLimitReached = errors.New("limit reached")
	// ErrPartialFanout aggregates per-item failures of a bulk operation.
	// Callers only see the aggregate, never per-item detail.
	ErrPartialFanout = errors.New("partial fan-out failure")
)

// StatusFor maps service errors onto the API status codes. Store errors
// collapse to a generic 400.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrLimitReached):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
