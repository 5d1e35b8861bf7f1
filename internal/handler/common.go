// Package handler defines the HTTP handlers for the reservation API.
// Handlers bind and validate input, orchestrate repository calls
// (opening a transaction when several writes must land together) and
// map repository sentinel errors onto HTTP status codes. Authentication
// and role checks happen in middleware before any handler runs.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// getUserID extracts the authenticated user's id from the context.
// JWT numeric claims arrive as float64; tests may store native ints.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
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

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// repoError maps repository sentinel errors onto JSON error responses.
// Unknown errors become a generic 500.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrHotelNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
