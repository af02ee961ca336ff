package handlers

import (
	"net/url"

	"github.com/labstack/echo/v4"
)

// wildcardID returns the "*" route param decoded exactly once. Echo routes on
// RawPath when the request carried escapes net/http could not reproduce, and
// on the already-decoded Path otherwise.
func wildcardID(c echo.Context) (string, error) {
	raw := c.Param("*")
	if c.Request().URL.RawPath == "" {
		return raw, nil
	}
	return url.PathUnescape(raw)
}
