package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bluegrove/aquamon-core/internal/archive"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
	"github.com/bluegrove/aquamon-core/internal/store"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HTTP server timeouts.
const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

// Deps holds the dependencies required by the dashboard server.
type Deps struct {
	Config  config.DashboardConfig
	Logger  *logging.Logger
	Store   *store.Store
	Archive *archive.Archive // optional: enables SQL-backed daily summaries
	Version string
}

// Server is the read-only HTTP server for recorded readings.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg     config.DashboardConfig
	logger  *logging.Logger
	store   *store.Store
	archive *archive.Archive
	version string
	server  *http.Server
}

// New creates a new dashboard server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, store)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("reading store is required")
	}
	// Archive is optional; daily summaries fall back to in-memory aggregation

	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		store:   deps.Store,
		archive: deps.Archive,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; stop it with Close().
//
// Returns:
//   - error: If the server cannot be configured
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		s.logger.Info("dashboard server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("dashboard server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the dashboard server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("dashboard server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down dashboard server: %w", err)
	}
	return nil
}

// HealthCheck verifies the dashboard server is running.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("dashboard health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("dashboard server not started")
	}

	return nil
}
