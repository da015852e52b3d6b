package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hallgate/mattergate/internal/bridge"
	"github.com/hallgate/mattergate/internal/infrastructure/config"
	"github.com/hallgate/mattergate/internal/infrastructure/logging"
	"github.com/hallgate/mattergate/internal/session"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker verifies one dependency is alive. Satisfied by
// *database.DB, *mqtt.Client, and *influxdb.Client.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config config.APIConfig
	Logger *logging.Logger
	Hub    *session.Hub

	// Registry lists the supported device categories in status output.
	Registry *bridge.Registry

	// Checks are named dependency health checks run by /health.
	// Nil entries are skipped.
	Checks map[string]HealthChecker

	Version string
}

// Server is Mattergate's HTTP status server.
//
// Created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	hub       *session.Hub
	registry  *bridge.Registry
	checks    map[string]HealthChecker
	version   string
	startTime time.Time

	server *http.Server
}

// New creates an API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Hub == nil {
		return nil, fmt.Errorf("session hub is required")
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		hub:       deps.Hub,
		registry:  deps.Registry,
		checks:    deps.Checks,
		version:   deps.Version,
		startTime: time.Now(),
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds
// for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
