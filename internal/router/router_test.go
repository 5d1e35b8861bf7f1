package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
)

// TestCacheWrapsOnlyPublicRoutes registers the public and guest routes
// with a short-circuiting stand-in for the response cache, then checks
// that browse requests go through it while reservation requests always
// reach the auth chain instead.
func TestCacheWrapsOnlyPublicRoutes(t *testing.T) {
	e := echo.New()
	served := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Cache", "HIT")
			return c.NoContent(http.StatusOK)
		}
	}
	RegisterPublic(e, handler.NewPublicHandler(nil, nil, nil), served)
	RegisterGuest(e, handler.NewGuestHandler(nil, nil, logrus.New()), "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Fatal("browse route did not pass through the cache")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Fatalf("reservation route was served from cache: X-Cache=%q", got)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 from the auth chain, got %d", rec.Code)
	}
}
