package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewErrorHandler renders errors as ErrorResponse. Classified errors use their
// kind's status and message; anything else is logged and reported as a 500.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := describe(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.Any("error", err),
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, ErrorResponse{Success: false, Error: message})
		}
		if werr != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", slog.Any("error", werr))
		}
	}
}

func describe(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if inner := he.Internal; inner != nil && models.KindOf(inner) != models.KindInternal {
			return models.KindOf(inner).HTTPStatus(), models.PublicMessage(inner)
		}
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			msg = http.StatusText(he.Code)
		}
		return he.Code, msg
	}

	kind := models.KindOf(err)
	return kind.HTTPStatus(), models.PublicMessage(err)
}

// bindError hides the binder's parse details from the client.
func bindError(err error) error {
	return &models.AppError{Kind: models.KindValidation, Message: "Invalid request payload", Err: err}
}
