package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	credentials *services.Credentials
	tokens      *services.TokenService
	timeout     time.Duration
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. timeout bounds each store round trip.
func NewAuthHandler(credentials *services.Credentials, tokens *services.TokenService, timeout time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		timeout:     timeout,
		logger:      logger,
	}
}

// RegisterAuthRoutes registers the unauthenticated account routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
}

// Signup creates an account and returns a session token for it.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	user, err := h.credentials.CreateUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, user, "Account created successfully")
}

// Login exchanges email and password for a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return models.ErrInvalidCredentials
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	user, err := h.credentials.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respondWithToken(c, user, "Login successful")
}

func (h *AuthHandler) respondWithToken(c echo.Context, user *models.User, message string) error {
	token, err := h.tokens.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Message: message,
		Token:   token,
		User:    user.ToCompact(),
	})
}

func withTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.Request().Context())
	}
	return context.WithTimeout(c.Request().Context(), d)
}
