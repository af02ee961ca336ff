package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anonto42/kickoff/backend/internal/handlers"
	"github.com/anonto42/kickoff/backend/internal/metrics"
	"github.com/anonto42/kickoff/backend/internal/middleware"
	"github.com/anonto42/kickoff/backend/internal/services"
	"github.com/anonto42/kickoff/backend/internal/validators"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Dependencies is everything the HTTP layer needs.
type Dependencies struct {
	Logger      *slog.Logger
	Tokens      *services.TokenService
	Credentials *services.Credentials
	Comments    *services.Comments
	Stats       *services.Stats
	News        handlers.NewsSource
	Store       handlers.Pinger // nil for the in-memory driver

	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	StoreTimeout time.Duration
	CORSOrigins  []string
	RateLimitRPS float64
	StaticDir    string
}

// New builds the Echo instance with middleware and routes installed.
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.NewErrorHandler(deps.Logger)

	SetupMiddleware(e, deps)
	SetupRoutes(e, deps)
	return e
}

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo, deps Dependencies) {
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Secure())
	e.Use(eMiddleware.BodyLimit("1M"))
	if deps.Metrics != nil {
		e.Use(middleware.Metrics(deps.Metrics))
	}

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	if deps.RateLimitRPS > 0 {
		e.Use(eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			Store: eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(deps.RateLimitRPS),
				Burst:     int(deps.RateLimitRPS*2) + 1,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusForbidden, handlers.ErrorResponse{Error: "Forbidden"})
			},
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return c.JSON(http.StatusTooManyRequests, handlers.ErrorResponse{Error: "Too many requests"})
			},
		}))
	}

	deps.Logger.Debug("global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies.
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)

	health := handlers.NewHealthHandler(deps.Store, deps.StoreTimeout)
	e.GET("/health", health.HealthCheck)
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(deps.Gatherer)))
	}

	api := e.Group("/api")

	handlers.NewAuthHandler(deps.Credentials, deps.Tokens, deps.StoreTimeout, deps.Logger).RegisterAuthRoutes(api)
	handlers.NewUserHandler(deps.Credentials, deps.StoreTimeout).RegisterProfileRoutes(api, requireAuth)
	handlers.NewCommentHandler(deps.Comments, deps.Credentials, deps.StoreTimeout).RegisterCommentRoutes(api, requireAuth, optionalAuth)

	if deps.News != nil {
		handlers.NewNewsHandler(deps.News).RegisterNewsRoutes(api)
	}
	if deps.Stats != nil {
		handlers.NewStatsHandler(deps.Stats).RegisterStatsRoutes(api)
	}

	if deps.StaticDir != "" {
		e.Static("/", deps.StaticDir)
	}

	deps.Logger.Debug("routes configured", slog.Int("count", len(e.Routes())))
}
