package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/hallgate/mattergate/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	cfg := config.InfluxDBConfig{Enabled: false}

	_, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestCloseNil(t *testing.T) {
	var c *Client

	// Closing a nil client must not panic; callers close unconditionally
	// during shutdown even when telemetry was never enabled.
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnectedNil(t *testing.T) {
	var c *Client

	if c.IsConnected() {
		t.Error("IsConnected() on nil client = true, want false")
	}
}

func TestRecordEventDisconnected(t *testing.T) {
	c := &Client{}

	// Must be a silent no-op: writeAPI is nil and would panic if touched.
	c.RecordEvent("d1", "switch", "switch", "on")
	c.RecordEvent("d7", "light", "level", 80.0)
	c.RecordEvent("d9", "outlet", "on", true)
}

func TestHealthCheckNotConnected(t *testing.T) {
	c := &Client{}

	err := c.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
