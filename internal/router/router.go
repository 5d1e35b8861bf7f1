// Package router wires HTTP routes to handlers and attaches the
// authentication and role middleware each group requires.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login, refresh
// and logout live under /v1/auth and need no session; /v1/me requires a
// valid token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("GUEST", "OPERATOR"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// hotels, their public room listings, and the availability check. The
// response cache wraps only this group; authenticated routes must
// always run their full middleware chain, so they are never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/hotels", cache)
	g.GET("", p.ListHotels)
	g.GET("/:id", p.GetHotel)
	g.GET("/:id/rooms", p.ListRooms)
	g.GET("/:id/availability", p.CheckAvailability)
}
