package middleware

import (
	"errors"
	"net/http"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// StatusOf returns the response status for a handler error.
func StatusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if inner := he.Internal; inner != nil && models.KindOf(inner) != models.KindInternal {
			return models.KindOf(inner).HTTPStatus()
		}
		return he.Code
	}
	if err == nil {
		return http.StatusOK
	}
	return models.KindOf(err).HTTPStatus()
}

// responseStatus is the status actually written, or the one err will produce
// once the error handler runs.
func responseStatus(c echo.Context, err error) int {
	if err != nil && !c.Response().Committed {
		return StatusOf(err)
	}
	return c.Response().Status
}
