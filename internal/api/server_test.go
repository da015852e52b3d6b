package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hallgate/mattergate/internal/bridge"
	"github.com/hallgate/mattergate/internal/infrastructure/config"
	"github.com/hallgate/mattergate/internal/infrastructure/logging"
	"github.com/hallgate/mattergate/internal/session"
)

// stubChecker implements HealthChecker with a fixed result.
type stubChecker struct {
	err error
}

func (s *stubChecker) HealthCheck(context.Context) error {
	return s.err
}

func newTestServer(t *testing.T, checks map[string]HealthChecker) (*Server, *session.Hub) {
	t.Helper()

	hub := session.NewHub(session.HubOptions{Name: "Mattergate"})
	registry := bridge.NewRegistry()

	srv, err := New(Deps{
		Config:   config.APIConfig{Host: "127.0.0.1", Port: 8090},
		Logger:   logging.Default(),
		Hub:      hub,
		Registry: registry,
		Checks:   checks,
		Version:  "1.0.0",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return srv, hub
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.buildRouter().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresHub(t *testing.T) {
	_, err := New(Deps{Logger: logging.Default()})
	if err == nil {
		t.Error("New() error = nil without hub, want error")
	}
}

func TestHealthOK(t *testing.T) {
	srv, _ := newTestServer(t, map[string]HealthChecker{
		"database": &stubChecker{},
		"mqtt":     &stubChecker{},
	})

	rec := get(t, srv, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Checks["database"] != "ok" || resp.Checks["mqtt"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
}

func TestHealthDegraded(t *testing.T) {
	srv, _ := newTestServer(t, map[string]HealthChecker{
		"database": &stubChecker{},
		"mqtt":     &stubChecker{err: errors.New("broker unreachable")},
	})

	rec := get(t, srv, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when degraded", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
	if resp.Checks["mqtt"] != "broker unreachable" {
		t.Errorf("mqtt check = %q", resp.Checks["mqtt"])
	}
}

func TestBridgeStatus(t *testing.T) {
	srv, hub := newTestServer(t, nil)
	if err := hub.AddBridgedNode(bridge.NewNode("d1", "Desk Switch", "switch")); err != nil {
		t.Fatalf("AddBridgedNode() error: %v", err)
	}
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	rec := get(t, srv, "/api/v1/bridge/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp BridgeStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.SessionStarted || resp.Nodes != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestBridgeDevices(t *testing.T) {
	srv, hub := newTestServer(t, nil)
	node := bridge.NewNode("d1", "Desk Switch", "switch")
	node.SetState("on", true)
	if err := hub.AddBridgedNode(node); err != nil {
		t.Fatalf("AddBridgedNode() error: %v", err)
	}

	rec := get(t, srv, "/api/v1/bridge/devices")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var infos []session.NodeInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(infos) != 1 || infos[0].DeviceID != "d1" || infos[0].State["on"] != true {
		t.Errorf("devices = %+v", infos)
	}
}

func TestBridgePairing(t *testing.T) {
	srv, hub := newTestServer(t, nil)

	rec := get(t, srv, "/api/v1/bridge/pairing")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var pairing session.PairingInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &pairing); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if pairing != hub.Pairing() {
		t.Errorf("pairing = %+v, want %+v", pairing, hub.Pairing())
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := get(t, srv, "/api/v1/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var apiErr Error
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if apiErr.Code != ErrCodeNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeNotFound)
	}
}
