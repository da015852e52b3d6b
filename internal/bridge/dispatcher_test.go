package bridge

import (
	"context"
	"sync"
	"testing"

	"github.com/hallgate/mattergate/internal/store"
)

// captureLogger records log calls for assertions.
type captureLogger struct {
	mu    sync.Mutex
	warns []logEntry
	debug []logEntry
}

type logEntry struct {
	msg  string
	args []any
}

func (l *captureLogger) Debug(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, logEntry{msg: msg, args: args})
}

func (l *captureLogger) Info(string, ...any) {}

func (l *captureLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, logEntry{msg: msg, args: args})
}

func (l *captureLogger) Error(string, ...any) {}

func (l *captureLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

// warnArgs returns the key/value args of the only warning.
func (l *captureLogger) warnArgs(t *testing.T) map[string]any {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.warns) != 1 {
		t.Fatalf("warning count = %d, want 1", len(l.warns))
	}
	args := map[string]any{}
	entry := l.warns[0]
	for i := 0; i+1 < len(entry.args); i += 2 {
		key, ok := entry.args[i].(string)
		if !ok {
			continue
		}
		args[key] = entry.args[i+1]
	}
	return args
}

// mockRecorder records telemetry calls.
type mockRecorder struct {
	mu     sync.Mutex
	events []string
}

func (m *mockRecorder) RecordEvent(deviceID, category, property string, _ any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, deviceID+"/"+category+"/"+property)
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func newTestDispatcher(t *testing.T, adapter Adapter, recorder EventRecorder, logger Logger, synced bool) (*Dispatcher, *SyncSet) {
	t.Helper()

	registry := NewRegistry()
	if adapter != nil {
		registry.Register("switch", adapter)
	}

	syncSet := NewSyncSet(store.New(newMemScalar()))
	if synced {
		if err := syncSet.Mark(context.Background(), "d1"); err != nil {
			t.Fatalf("marking d1 synced: %v", err)
		}
	}

	d := NewDispatcher(DispatcherOptions{
		Synced:   syncSet,
		Registry: registry,
		Recorder: recorder,
		Logger:   logger,
		Config:   DispatcherConfig{Debug: true},
	})
	return d, syncSet
}

func TestDispatchHandled(t *testing.T) {
	adapter := &stubAdapter{sendStatus: StatusHandled}
	recorder := &mockRecorder{}
	logger := &captureLogger{}
	d, _ := newTestDispatcher(t, adapter, recorder, logger, true)

	dev := switchDevice()
	node := NewNode(dev.ID, dev.Label, dev.Category)
	d.Dispatch(context.Background(), dev, node, Event{Interface: "switch", Property: "switch", Payload: "on"})

	if adapter.sendEventCnt != 1 {
		t.Errorf("SendEvent calls = %d, want 1", adapter.sendEventCnt)
	}
	if got := node.State()["switch"]; got != "on" {
		t.Errorf("node state switch = %v, want on", got)
	}
	if recorder.count() != 1 {
		t.Errorf("recorded events = %d, want 1", recorder.count())
	}
	if logger.warnCount() != 0 {
		t.Errorf("warnings = %d, want 0", logger.warnCount())
	}
}

func TestDispatchSyncGating(t *testing.T) {
	adapter := &stubAdapter{sendStatus: StatusHandled}
	logger := &captureLogger{}
	d, _ := newTestDispatcher(t, adapter, nil, logger, false)

	dev := switchDevice()
	d.Dispatch(context.Background(), dev, NewNode(dev.ID, dev.Label, dev.Category),
		Event{Interface: "switch", Property: "switch", Payload: "on"})

	if adapter.sendEventCnt != 0 {
		t.Errorf("SendEvent calls = %d for unsynced device, want 0", adapter.sendEventCnt)
	}
	if logger.warnCount() != 0 {
		t.Errorf("warnings = %d, want 0", logger.warnCount())
	}
}

func TestDispatchDropsLifecycleInterface(t *testing.T) {
	adapter := &stubAdapter{sendStatus: StatusHandled}
	d, _ := newTestDispatcher(t, adapter, nil, nil, true)

	dev := switchDevice()
	d.Dispatch(context.Background(), dev, NewNode(dev.ID, dev.Label, dev.Category),
		Event{Interface: "device", Property: "updated", Payload: nil})

	if adapter.sendEventCnt != 0 {
		t.Errorf("SendEvent calls = %d for lifecycle event, want 0", adapter.sendEventCnt)
	}
}

func TestDispatchAdapterAbsentSilent(t *testing.T) {
	logger := &captureLogger{}
	d, _ := newTestDispatcher(t, nil, nil, logger, true)

	dev := switchDevice()
	node := NewNode(dev.ID, dev.Label, dev.Category)
	d.Dispatch(context.Background(), dev, node, Event{Interface: "switch", Property: "switch", Payload: "on"})

	if logger.warnCount() != 0 {
		t.Errorf("warnings = %d for absent adapter, want 0", logger.warnCount())
	}
	if len(node.State()) != 0 {
		t.Errorf("node state changed for absent adapter: %v", node.State())
	}
}

func TestDispatchNotSupportedWarnsOnce(t *testing.T) {
	adapter := &stubAdapter{sendStatus: StatusNotSupported}
	logger := &captureLogger{}
	d, _ := newTestDispatcher(t, adapter, nil, logger, true)

	dev := switchDevice()
	d.Dispatch(context.Background(), dev, NewNode(dev.ID, dev.Label, dev.Category),
		Event{Interface: "colorControl", Property: "hue", Payload: 120})

	args := logger.warnArgs(t)
	if args["interface"] != "colorControl" {
		t.Errorf("warning interface = %v, want colorControl", args["interface"])
	}
	if args["property"] != "hue" {
		t.Errorf("warning property = %v, want hue", args["property"])
	}
	if args["category"] != "switch" {
		t.Errorf("warning category = %v, want switch", args["category"])
	}
}

func TestDispatchInfraAllowlistSilent(t *testing.T) {
	for _, iface := range []string{"healthCheck", "battery", "powerSource", "signalStrength"} {
		t.Run(iface, func(t *testing.T) {
			adapter := &stubAdapter{sendStatus: StatusNotSupported}
			logger := &captureLogger{}
			d, _ := newTestDispatcher(t, adapter, nil, logger, true)

			dev := switchDevice()
			d.Dispatch(context.Background(), dev, NewNode(dev.ID, dev.Label, dev.Category),
				Event{Interface: iface, Property: "status", Payload: "ok"})

			if logger.warnCount() != 0 {
				t.Errorf("warnings = %d for %s, want 0", logger.warnCount(), iface)
			}
		})
	}
}

func TestDispatchUnhandledWarns(t *testing.T) {
	adapter := &stubAdapter{sendStatus: StatusUnhandled}
	logger := &captureLogger{}
	d, _ := newTestDispatcher(t, adapter, nil, logger, true)

	dev := switchDevice()
	d.Dispatch(context.Background(), dev, NewNode(dev.ID, dev.Label, dev.Category),
		Event{Interface: "switch", Property: "switch", Payload: map[string]any{"weird": true}})

	if logger.warnCount() != 1 {
		t.Errorf("warnings = %d, want 1", logger.warnCount())
	}
}

func TestDispatchNoRecorder(t *testing.T) {
	adapter := &stubAdapter{sendStatus: StatusHandled}
	d, _ := newTestDispatcher(t, adapter, nil, nil, true)

	dev := switchDevice()
	// Must not panic with nil recorder and nil logger.
	d.Dispatch(context.Background(), dev, NewNode(dev.ID, dev.Label, dev.Category),
		Event{Interface: "switch", Property: "switch", Payload: "on"})
}
