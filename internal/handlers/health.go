package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil store (the in-memory driver)
// is always healthy.
func NewHealthHandler(store Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{store: store, timeout: timeout}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	storage := "memory"
	if h.store != nil {
		ctx, cancel := withTimeout(c, h.timeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"service": "kickoff-api",
				"storage": "unreachable",
			})
		}
		storage = "ok"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "kickoff-api",
		"storage": storage,
	})
}
