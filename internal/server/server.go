// Package server exposes the instrument engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-yantra/internal/cache"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/logging"
	"github.com/litescript/ls-yantra/internal/metrics"
)

// Option configures a Server.
type Option func(*Server)

// Server serves instrument readouts.
type Server struct {
	echo     *echo.Echo
	computer *instrument.Computer
	cache    cache.Service
	cacheTTL time.Duration
	metrics  *metrics.Recorder
	log      *logging.Logger
	limiter  *IPRateLimiter

	corsOrigins     []string
	liveInterval    time.Duration
	metricsPath     string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	now             func() time.Time
}

// WithCache puts a readout cache in front of the computer.
func WithCache(svc cache.Service, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = svc
		s.cacheTTL = ttl
	}
}

// WithMetrics records request and engine metrics.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Server) {
		s.metrics = rec
	}
}

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRateLimit enables a per-client token bucket.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = NewIPRateLimiter(rate.Limit(rps), burst)
	}
}

// WithCORS sets the allowed origins.
func WithCORS(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithLiveInterval sets the live feed period.
func WithLiveInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.liveInterval = d
		}
	}
}

// WithMetricsPath sets where Prometheus metrics are served.
func WithMetricsPath(p string) Option {
	return func(s *Server) {
		s.metricsPath = p
	}
}

// WithTimeouts sets read/write/shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
		s.shutdownTimeout = shutdown
	}
}

// New creates a server around computer.
func New(computer *instrument.Computer, opts ...Option) *Server {
	s := &Server{
		computer:        computer,
		log:             logging.Discard(),
		corsOrigins:     []string{"*"},
		liveInterval:    5 * time.Second,
		metricsPath:     "/metrics",
		readTimeout:     10 * time.Second,
		writeTimeout:    10 * time.Second,
		shutdownTimeout: 5 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(s.loggingMiddleware())
	e.Use(s.metricsMiddleware())
	e.Use(s.recoverMiddleware())
	if len(s.corsOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: s.corsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
	if s.limiter != nil {
		e.Use(s.rateLimitMiddleware())
	}

	s.echo = e
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo
	api := e.Group("/api")

	api.GET("/health", s.health)
	api.GET("/yantras", s.listYantras)
	api.GET("/yantra/:type/example", s.example)
	api.POST("/yantra/:type", s.computeYantra)

	for _, k := range instrument.Kinds() {
		e.POST(k.Info().Endpoint, s.computeFixed(k))
	}
	api.POST("/diagsma_yantra", s.computeFixed(instrument.KindDigamsa))
	api.POST("/diagsma-yantra", s.computeFixed(instrument.KindDigamsa))

	api.GET("/sidereal", s.sidereal)
	api.GET("/solar", s.solar)
	api.GET("/zodiac", s.zodiac)
	api.GET("/magnetic", s.magnetic)

	api.GET("/live/:type", s.live)

	e.GET(s.metricsPath, echo.WrapHandler(s.metrics.Handler()))
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.echo.Server.ReadTimeout = s.readTimeout
	s.echo.Server.WriteTimeout = s.writeTimeout

	s.log.Info("http server: listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Run starts the server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Start(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("http server: stopped gracefully")
	return nil
}
