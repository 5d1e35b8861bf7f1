package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
)

// statsWindow parses the optional from/to query parameters, defaulting
// to the current calendar month in UTC.
func statsWindow(c echo.Context) (start, end time.Time, err error) {
	now := time.Now().UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)

	if raw := c.QueryParam("from"); raw != "" {
		if start, err = booking.ParseDate(raw); err != nil {
			return
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if end, err = booking.ParseDate(raw); err != nil {
			return
		}
	}
	if end.Before(start) {
		err = booking.ErrInvalidRange
	}
	return
}

// Occupancy handles GET /v1/operator/hotels/:id/stats/occupancy. The
// report counts confirmed stays intersecting the window against the
// hotel's room count.
func (h *OperatorHandler) Occupancy(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	start, end, err := statsWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stats window"})
	}

	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByIDAndOperator(ctx, hotelID, operatorID); err != nil {
		return repoError(c, err)
	}
	totalRooms, err := h.RoomRepo.CountByHotel(ctx, hotelID)
	if err != nil {
		return repoError(c, err)
	}
	stays, err := h.ReservationRepo.ConfirmedStays(ctx, hotelID)
	if err != nil {
		return repoError(c, err)
	}

	stats := booking.ComputeOccupancy(totalRooms, stays, start, end, time.Now().UTC())
	return c.JSON(http.StatusOK, echo.Map{
		"hotel_id": hotelID,
		"from":     start.Format(booking.DateLayout),
		"to":       end.Format(booking.DateLayout),
		"stats":    stats,
	})
}

// Revenue handles GET /v1/operator/hotels/:id/stats/revenue. Revenue is
// integer cents: nights times the base price plus its percentage tax.
func (h *OperatorHandler) Revenue(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	start, end, err := statsWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stats window"})
	}

	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByIDAndOperator(ctx, hotelID, operatorID); err != nil {
		return repoError(c, err)
	}
	stays, err := h.ReservationRepo.ConfirmedStays(ctx, hotelID)
	if err != nil {
		return repoError(c, err)
	}

	stats := booking.ComputeRevenue(stays, start, end)
	return c.JSON(http.StatusOK, echo.Map{
		"hotel_id": hotelID,
		"from":     start.Format(booking.DateLayout),
		"to":       end.Format(booking.DateLayout),
		"stats":    stats,
	})
}
