package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each dependency check in /health.
const healthCheckTimeout = 3 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/bridge", func(r chi.Router) {
			r.Get("/status", s.handleBridgeStatus)
			r.Get("/devices", s.handleBridgeDevices)
			r.Get("/pairing", s.handleBridgePairing)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "resource not found")
	})

	return r
}

// HealthResponse reports overall and per-dependency health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  int64             `json:"uptime_seconds"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// handleHealth runs the registered dependency checks and reports
// aggregate health. Any failing check degrades the overall status but
// still returns 200; monitoring reads the body.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  int64(time.Since(s.startTime).Seconds()),
		Checks:  make(map[string]string, len(s.checks)),
	}

	for name, check := range s.checks {
		if check == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		if err := check.HealthCheck(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
		} else {
			resp.Checks[name] = "ok"
		}
		cancel()
	}

	writeJSON(w, http.StatusOK, resp)
}

// BridgeStatusResponse summarizes the bridge session.
type BridgeStatusResponse struct {
	SessionStarted bool     `json:"session_started"`
	Nodes          int      `json:"nodes"`
	Categories     []string `json:"categories"`
	Version        string   `json:"version"`
	Uptime         int64    `json:"uptime_seconds"`
}

// handleBridgeStatus returns session state and supported categories.
func (s *Server) handleBridgeStatus(w http.ResponseWriter, _ *http.Request) {
	resp := BridgeStatusResponse{
		SessionStarted: s.hub.Started(),
		Nodes:          s.hub.NodeCount(),
		Version:        s.version,
		Uptime:         int64(time.Since(s.startTime).Seconds()),
	}
	if s.registry != nil {
		resp.Categories = s.registry.Categories()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBridgeDevices returns the bridged-node list with current state.
func (s *Server) handleBridgeDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Nodes())
}

// handleBridgePairing returns commissioning information.
func (s *Server) handleBridgePairing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Pairing())
}
