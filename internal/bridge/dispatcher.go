package bridge

import (
	"context"

	"github.com/hallgate/mattergate/internal/platform"
)

// lifecycleInterface is the platform's own generic device-lifecycle
// interface. Self-referential; never forwarded to adapters.
const lifecycleInterface = "device"

// infraInterfaces are platform infrastructure interfaces whose events no
// adapter translates. NotSupported for these is routine and logged at
// debug level only; any other NotSupported interface gets a warning.
var infraInterfaces = map[string]bool{
	"healthCheck":    true,
	"battery":        true,
	"powerSource":    true,
	"signalStrength": true,
}

// SyncChecker reports synced-set membership. Satisfied by *SyncSet.
type SyncChecker interface {
	IsSynced(ctx context.Context, deviceID string) (bool, error)
}

// EventRecorder records forwarded events for telemetry. Satisfied by
// *influxdb.Client. Optional; nil disables recording.
type EventRecorder interface {
	RecordEvent(deviceID, category, property string, value any)
}

// Logger interface for dispatcher logging.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DispatcherConfig holds dispatcher tuning. Debug is read at each log
// call site rather than through process-wide state.
type DispatcherConfig struct {
	// Debug enables per-event debug logging of drops and translations.
	Debug bool
}

// Dispatcher forwards one platform event through the matching adapter.
//
// Events are dropped, in order, when the device is not in the synced set,
// when the interface is the platform's lifecycle interface, or when the
// device's category has no adapter. Translation outcomes are classified
// by the adapter's EventStatus.
type Dispatcher struct {
	synced   SyncChecker
	registry *Registry
	recorder EventRecorder // optional
	cfg      DispatcherConfig
	logger   Logger // optional
}

// DispatcherOptions holds configuration for creating a dispatcher.
type DispatcherOptions struct {
	Synced   SyncChecker
	Registry *Registry

	// Recorder is optional event telemetry. If nil, forwarded events are
	// not recorded.
	Recorder EventRecorder

	// Logger is optional structured logging.
	Logger Logger

	Config DispatcherConfig
}

// NewDispatcher creates an event translation dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	return &Dispatcher{
		synced:   opts.Synced,
		registry: opts.Registry,
		recorder: opts.Recorder,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
}

// Dispatch forwards one event for a device to its adapter, applying the
// translation to node. Failures never propagate: an event that cannot be
// forwarded is dropped with at most one log line.
func (d *Dispatcher) Dispatch(ctx context.Context, dev *platform.Device, node *Node, ev Event) {
	synced, err := d.synced.IsSynced(ctx, dev.ID)
	if err != nil {
		d.logError("checking sync membership", dev.ID, err)
		return
	}
	if !synced {
		d.logDebug("dropping event for unsynced device", dev.ID, ev)
		return
	}

	if ev.Interface == lifecycleInterface {
		d.logDebug("dropping lifecycle event", dev.ID, ev)
		return
	}

	adapter, ok := d.registry.Lookup(dev.Category)
	if !ok {
		// No adapter for this category: unsupported, not an error.
		return
	}

	status := adapter.SendEvent(ctx, node, ev)
	switch status {
	case StatusHandled:
		if d.recorder != nil {
			d.recorder.RecordEvent(dev.ID, dev.Category, ev.Property, ev.Payload)
		}
		d.logDebug("event forwarded", dev.ID, ev)
	case StatusUnhandled:
		if d.logger != nil {
			d.logger.Warn("event payload not translatable",
				"device_id", dev.ID,
				"category", dev.Category,
				"interface", ev.Interface,
				"property", ev.Property)
		}
	case StatusNotSupported:
		if infraInterfaces[ev.Interface] {
			d.logDebug("dropping infrastructure event", dev.ID, ev)
			return
		}
		if d.logger != nil {
			d.logger.Warn("event interface not supported by adapter",
				"device_id", dev.ID,
				"category", dev.Category,
				"interface", ev.Interface,
				"property", ev.Property)
		}
	}
}

func (d *Dispatcher) logDebug(msg, deviceID string, ev Event) {
	if !d.cfg.Debug || d.logger == nil {
		return
	}
	d.logger.Debug(msg,
		"device_id", deviceID,
		"interface", ev.Interface,
		"property", ev.Property)
}

func (d *Dispatcher) logError(msg, deviceID string, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Error(msg, "device_id", deviceID, "error", err)
}
