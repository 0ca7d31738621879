// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"strconv"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"seller-intel-engine/internal/config"
	"seller-intel-engine/internal/inventory"
	"seller-intel-engine/internal/observability"
	"seller-intel-engine/internal/orders"
	"seller-intel-engine/internal/reporting"
	"seller-intel-engine/internal/storage"
)

// Server wires the engine components behind an echo HTTP API.
type Server struct {
	echo      *echo.Echo
	guard     *inventory.Guard
	generator *reporting.Generator
	orders    *orders.Manager
	products  storage.ProductStore
	sales     storage.SalesHistoryStore
	analytics storage.SalesAnalytics
	metrics   *observability.Metrics
	registry  *prometheus.Registry
	logger    zerolog.Logger
}

// Options carries the server dependencies.
type Options struct {
	Guard     *inventory.Guard
	Generator *reporting.Generator
	Orders    *orders.Manager
	Products  storage.ProductStore
	Sales     storage.SalesHistoryStore
	Analytics storage.SalesAnalytics // optional, nil when no analytics backend
	Metrics   *observability.Metrics
	Registry  *prometheus.Registry
	Config    config.ServerConfig
	JWT       config.JWTConfig
	Logger    zerolog.Logger
}

// New creates the HTTP server and registers all routes.
func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		guard:     opts.Guard,
		generator: opts.Generator,
		orders:    opts.Orders,
		products:  opts.Products,
		sales:     opts.Sales,
		analytics: opts.Analytics,
		metrics:   opts.Metrics,
		registry:  opts.Registry,
		logger:    opts.Logger.With().Str("component", "http").Logger(),
	}

	e.Use(middleware.Recover())
	e.Use(s.requestMetrics)
	if opts.Config.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(opts.Config)))
	}

	// Unauthenticated health and metrics endpoints.
	e.GET("/healthz", s.handleHealthz)
	if s.registry != nil {
		e.GET("/metrics", echo.WrapHandler(observability.Handler(s.registry)))
	}

	api := e.Group("/api")
	if opts.JWT.Enabled && opts.JWT.SecretKey != "" {
		api.Use(echojwt.JWT([]byte(opts.JWT.SecretKey)))
	}

	api.POST("/inventory/health", s.handleStockHealth)
	api.POST("/inventory/restock", s.handleRestock)
	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders/dashboard", s.handleDashboard)
	api.POST("/products", s.handleUpsertProduct)
	api.GET("/products/:id", s.handleGetProduct)
	api.GET("/analytics/velocity", s.handleVelocity)
	api.GET("/analytics/volume", s.handleVolume)

	return s
}

// Start begins serving on addr and blocks until shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("http server starting")
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func rateLimiterConfig(cfg config.ServerConfig) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}
}

// requestMetrics records per-route latency histograms.
func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.metrics == nil {
			return next(c)
		}
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		s.metrics.HTTPRequestDuration.
			WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
