package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterOperator registers OPERATOR-scoped endpoints under
// /v1/operator. All routes require a valid JWT with the OPERATOR role;
// ownership of the individual hotel or reservation is enforced in the
// handlers and repositories.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string) {
	g := e.Group(
		"/v1/operator",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OPERATOR"),
	)

	// ---- Hotels ----
	g.POST("/hotels", o.CreateHotel)
	g.GET("/hotels", o.ListMyHotels)
	g.GET("/hotels/:id", o.GetHotel)
	g.PUT("/hotels/:id", o.UpdateHotel)
	g.PATCH("/hotels/:id", o.UpdateHotel)

	// ---- Rooms ----
	g.POST("/hotels/:id/rooms", o.CreateRoom)
	g.GET("/hotels/:id/rooms", o.ListRooms)
	g.PUT("/rooms/:id", o.UpdateRoom)
	g.PATCH("/rooms/:id", o.UpdateRoom)

	// ---- Reservations ----
	g.GET("/reservations", o.ListPortfolio)
	g.GET("/reservations/:id", o.GetReservation)
	g.POST("/reservations/:id/confirm", o.Confirm)
	g.POST("/reservations/:id/cancel", o.CancelReservation)
	g.PATCH("/reservations/:id/status", o.UpdateStatus)
	g.GET("/hotels/:id/reservations", o.ListHotelReservations)

	// ---- Reports ----
	g.GET("/hotels/:id/stats/occupancy", o.Occupancy)
	g.GET("/hotels/:id/stats/revenue", o.Revenue)
}
