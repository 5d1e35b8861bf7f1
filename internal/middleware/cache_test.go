package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
)

// keyFor builds a routed echo context for target and returns its cache
// key. The route pattern is pinned so the test exercises the case where
// one route serves many resources.
func keyFor(t *testing.T, cfg config.CacheConfig, target string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/hotels/:id")
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeyDistinctPerResource(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "path_query"}

	k1 := keyFor(t, cfg, "/v1/hotels/1")
	k2 := keyFor(t, cfg, "/v1/hotels/2")
	if k1 == k2 {
		t.Fatalf("hotels 1 and 2 share cache key %s", k1)
	}
	if again := keyFor(t, cfg, "/v1/hotels/1"); again != k1 {
		t.Fatalf("key not stable for identical request: %s vs %s", again, k1)
	}
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "path_query"}

	plain := keyFor(t, cfg, "/v1/hotels/1/availability")
	dated := keyFor(t, cfg, "/v1/hotels/1/availability?check_in=2026-09-01&check_out=2026-09-04")
	if plain == dated {
		t.Fatal("availability key ignores the query string")
	}

	cfg.KeyStrategy = "path"
	if keyFor(t, cfg, "/v1/hotels/1?x=1") != keyFor(t, cfg, "/v1/hotels/1?x=2") {
		t.Fatal("path strategy must ignore the query string")
	}
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	for name, cfg := range map[string]config.CacheConfig{
		"disabled":  {Enabled: false},
		"no client": {Enabled: true, Methods: map[string]bool{"GET": true}},
	} {
		mw := NewRedisCache(cfg, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/hotels", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		called := false
		err := mw(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})(c)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if !called {
			t.Fatalf("%s: handler was not invoked", name)
		}
		if got := rec.Header().Get("X-Cache"); got != "" {
			t.Fatalf("%s: unexpected X-Cache header %q", name, got)
		}
	}
}
