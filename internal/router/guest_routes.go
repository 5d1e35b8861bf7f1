package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterGuest registers guest-scoped reservation endpoints under /v1.
// All routes require a valid JWT with the GUEST role.
func RegisterGuest(e *echo.Echo, h *handler.GuestHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("GUEST"),
	)
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.ListMine)
	g.GET("/reservations/:id", h.Get)
	g.POST("/reservations/:id/cancel", h.Cancel)
}

// RegisterMessages registers the reservation message thread endpoints.
// Both roles may participate; the handler checks that the caller is the
// booking guest or the hotel's operator.
func RegisterMessages(e *echo.Echo, h *handler.MessageHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("GUEST", "OPERATOR"),
	)
	g.POST("/reservations/:id/messages", h.Post)
	g.GET("/reservations/:id/messages", h.List)
}
