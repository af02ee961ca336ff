package middleware

import (
	"strings"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// TokenVerifier checks a session token and returns who it was issued to.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token before the
// handler runs, and stores the caller's identity on the context.
func RequireAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return models.ErrMissingToken
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				return err
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present. Missing or invalid tokens are treated as anonymous.
func OptionalAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				if id, err := tokens.Verify(raw); err == nil {
					c.Set(identityKey, id)
				}
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity set by RequireAuth or OptionalAuth.
func IdentityFrom(c echo.Context) (models.Identity, bool) {
	id, ok := c.Get(identityKey).(models.Identity)
	return id, ok && id.UserID != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
