package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's id as a string for cache and
// rate limit keying, or "anon" when the request is unauthenticated.
// JWTAuth stores the sub claim as a float64 (JSON number) or string
// depending on how the token was minted, so both are handled.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
