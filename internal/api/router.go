package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/fissaa/marketplace-api/internal/api/handler"
	"github.com/fissaa/marketplace-api/internal/api/middleware"
	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into routes.
type Deps struct {
	Log         zerolog.Logger
	Tokens      middleware.TokenVerifier
	FrontendURL string
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// process default registry, which also holds the domain counters.
	Registry *prometheus.Registry

	Auth     *handler.AuthHandler
	Artisans *handler.ArtisanHandler
	Bookings *handler.BookingHandler
	Reviews  *handler.ReviewHandler
	Health   *handlers.HealthHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "marketplace",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	// Handles errors itself, so the metrics middleware above sees final statuses.
	e.Use(requestLogger(d.Log))

	// --- Operational routes (no auth required) ---
	if d.Health != nil {
		e.GET("/health", d.Health.Liveness)
		e.GET("/health/ready", d.Health.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := middleware.Auth(d.Tokens)
	clientOnly := middleware.RBAC(domain.RoleClient)
	artisanOnly := middleware.RBAC(domain.RoleArtisan)

	// --- Auth ---
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.GET("/auth/me", d.Auth.Me, requireAuth)

	// --- Artisans ---
	api.GET("/artisans", d.Artisans.List)
	api.GET("/artisans/:id", d.Artisans.Get)
	api.POST("/artisans/profile", d.Artisans.UpsertProfile, requireAuth, artisanOnly)
	api.PUT("/artisans/profile", d.Artisans.UpsertProfile, requireAuth, artisanOnly)
	api.GET("/artisans/me/profile", d.Artisans.MyProfile, requireAuth, artisanOnly)
	api.PATCH("/artisans/availability", d.Artisans.ToggleAvailability, requireAuth, artisanOnly)

	// --- Bookings ---
	bookings := api.Group("/bookings", requireAuth)
	bookings.POST("", d.Bookings.Create, clientOnly)
	bookings.GET("/my-bookings", d.Bookings.ListMine)
	bookings.GET("/:id", d.Bookings.Get)
	bookings.GET("/:id/history", d.Bookings.History)
	bookings.PATCH("/:id/status", d.Bookings.UpdateStatus, artisanOnly)
	bookings.PATCH("/:id/price", d.Bookings.SetFinalPrice, artisanOnly)
	bookings.DELETE("/:id", d.Bookings.Cancel, clientOnly)

	// --- Reviews ---
	api.GET("/reviews/artisan/:artisanId", d.Reviews.ListForArtisan)
	reviews := api.Group("/reviews", requireAuth, clientOnly)
	reviews.POST("", d.Reviews.Create)
	reviews.GET("/my-reviews", d.Reviews.ListMine)
	reviews.PUT("/:id", d.Reviews.Update)
	reviews.DELETE("/:id", d.Reviews.Delete)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
