package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-registry/docs"
	"github.com/99minutos/user-registry/internal/api/handler"
	"github.com/99minutos/user-registry/internal/api/middleware"
	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

// Deps carries everything the router needs. Registerer and Gatherer default
// to the global Prometheus registry when nil.
type Deps struct {
	Users        ports.UserService
	Logger       zerolog.Logger
	AuthRequired bool
	Checks       []handler.DependencyCheck
	Registerer   prometheus.Registerer
	Gatherer     prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "user_registry",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Checks...)
	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)   // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Registry routes ---
	authHandler := handler.NewAuthHandler(deps.Users)
	e.POST("/v1/authenticate", authHandler.Authenticate)

	users := handler.NewUserHandler(deps.Users)
	g := e.Group("/v1/users")

	var adminOnly []echo.MiddlewareFunc
	if deps.AuthRequired {
		g.Use(middleware.Auth(deps.Users))
		adminOnly = append(adminOnly, middleware.RBAC(domain.RoleAdmin))
	}

	g.GET("", users.List)
	g.GET("/by-username/:username", users.GetByUsername)
	g.GET("/:id", users.Get)
	g.POST("", users.Create, adminOnly...)
	g.PATCH("/:id", users.Update, adminOnly...)
	g.DELETE("/:id", users.Delete, adminOnly...)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
