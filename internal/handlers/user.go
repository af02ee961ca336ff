package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/kickoff/backend/internal/middleware"
	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	credentials *services.Credentials
	timeout     time.Duration
}

func NewUserHandler(credentials *services.Credentials, timeout time.Duration) *UserHandler {
	return &UserHandler{credentials: credentials, timeout: timeout}
}

// RegisterProfileRoutes registers routes that need a session. requireAuth must
// reject anonymous callers.
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/profile", h.GetProfile, requireAuth)
}

// GetProfile returns the caller's account. A token whose user was deleted yields 404.
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.ErrMissingToken
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	user, err := h.credentials.FindByID(ctx, id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user.ToProfile(),
	})
}
