package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/hallgate/mattergate/internal/platform"
)

// removedProperty marks the lifecycle event the platform publishes when a
// device is deleted.
const removedProperty = "removed"

// PlatformAPI is the platform surface the controller consumes.
// Satisfied by *platform.Client.
type PlatformAPI interface {
	ListDeviceIDs(ctx context.Context) ([]string, error)
	GetDevice(ctx context.Context, deviceID string) (*platform.Device, bool, error)
	Listen(handler platform.EventHandler) error
}

// Session is the bridge-session surface the controller consumes.
// Satisfied by *session.Hub.
type Session interface {
	// AddBridgedNode registers a node with the session. Nodes may be
	// added both before and after Start.
	AddBridgedNode(node *Node) error

	// Start brings the session online. Called exactly once, after
	// startup enumeration has completed.
	Start(ctx context.Context) error
}

// SyncMembership manages the synced-device set. Satisfied by *SyncSet.
type SyncMembership interface {
	IsSynced(ctx context.Context, deviceID string) (bool, error)
	Mark(ctx context.Context, deviceID string) error
	Unmark(ctx context.Context, deviceID string) error
}

// Controller wires enumeration, enrollment, discovery, and the live
// event feed together.
//
// Thread safety: the live feed delivers events on the MQTT client's
// handler goroutines; per-device locks serialize observations of the
// same device while letting different devices proceed concurrently.
type Controller struct {
	platform   PlatformAPI
	enroller   *Enroller
	dispatcher *Dispatcher
	registry   *Registry
	session    Session
	synced     SyncMembership

	// Per-run discovery state: discover runs at most once per device per
	// process, whether it yields a node or not.
	nodesMu    sync.RWMutex
	nodes      map[string]*Node
	discovered map[string]bool

	// locks serialize observations per device.
	locks *deviceLocks

	runMu   sync.Mutex
	running bool
	ctx     context.Context

	logger Logger // optional
}

// ControllerOptions holds configuration for creating a controller.
type ControllerOptions struct {
	Platform   PlatformAPI
	Enroller   *Enroller
	Dispatcher *Dispatcher
	Registry   *Registry
	Session    Session
	Synced     SyncMembership

	// Logger is optional structured logging.
	Logger Logger
}

// NewController creates a bridge controller. Call Run to begin operation.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{
		platform:   opts.Platform,
		enroller:   opts.Enroller,
		dispatcher: opts.Dispatcher,
		registry:   opts.Registry,
		session:    opts.Session,
		synced:     opts.Synced,
		nodes:      make(map[string]*Node),
		discovered: make(map[string]bool),
		locks:      newDeviceLocks(),
		logger:     opts.Logger,
	}
}

// Run enumerates all platform devices, enrolls and discovers the
// bridgeable ones, starts the session, and then subscribes to the live
// event feed. It returns once the subscription is in place; event
// handling continues on the MQTT client's goroutines until ctx is
// cancelled.
//
// Enumeration failure is fatal: the session must not start with partial
// device state. Per-device enrollment failures are logged and skipped.
func (c *Controller) Run(ctx context.Context) error {
	c.runMu.Lock()
	if c.running {
		c.runMu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	c.ctx = ctx
	c.runMu.Unlock()

	deviceIDs, err := c.platform.ListDeviceIDs(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnumerationFailed, err)
	}
	c.logInfo("startup enumeration complete", "devices", len(deviceIDs))

	for _, deviceID := range deviceIDs {
		if err := c.observeDevice(ctx, deviceID); err != nil {
			// One device failing must not stop the rest.
			c.logError("device observation failed", "device_id", deviceID, "error", err)
		}
	}

	if err := c.session.Start(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStartFailed, err)
	}
	c.logInfo("bridge session started", "nodes", c.NodeCount())

	if err := c.platform.Listen(c.handleEvent); err != nil {
		return fmt.Errorf("subscribing to live event feed: %w", err)
	}
	return nil
}

// observeDevice runs one enrollment evaluation for a device during
// startup enumeration. Startup never adds to the synced set; that
// happens on the first live observation.
func (c *Controller) observeDevice(ctx context.Context, deviceID string) error {
	lock := c.locks.get(deviceID)
	lock.Lock()
	defer lock.Unlock()

	dev, found, err := c.platform.GetDevice(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", deviceID, err)
	}
	if !found {
		return nil
	}

	result, err := c.enroller.Ensure(ctx, dev)
	if err != nil {
		return err
	}
	if result == EnrollNotSupported {
		return nil
	}

	c.ensureNode(ctx, dev)
	return nil
}

// handleEvent processes one live platform event: lifecycle removal,
// enrollment convergence, sync marking, then dispatch.
func (c *Controller) handleEvent(ev platform.EventMessage) {
	ctx := c.runContext()

	if ev.Interface == lifecycleInterface && ev.Property == removedProperty {
		c.handleRemoval(ctx, ev.DeviceID)
		return
	}

	lock := c.locks.get(ev.DeviceID)
	lock.Lock()
	defer lock.Unlock()

	dev, found, err := c.platform.GetDevice(ctx, ev.DeviceID)
	if err != nil {
		c.logError("looking up event source", "device_id", ev.DeviceID, "error", err)
		return
	}
	if !found {
		return
	}

	result, err := c.enroller.Ensure(ctx, dev)
	if err != nil {
		c.logError("enrollment failed", "device_id", dev.ID, "error", err)
		return
	}
	if result == EnrollNotSupported {
		return
	}
	if result == EnrollSetup {
		c.logInfo("device enrolled", "device_id", dev.ID, "category", dev.Category)
	}

	node := c.ensureNode(ctx, dev)

	// First live observation of an enrolled device enables forwarding.
	synced, err := c.synced.IsSynced(ctx, dev.ID)
	if err != nil {
		c.logError("checking sync membership", "device_id", dev.ID, "error", err)
		return
	}
	if !synced {
		if err := c.synced.Mark(ctx, dev.ID); err != nil {
			c.logError("marking device synced", "device_id", dev.ID, "error", err)
			return
		}
		c.logInfo("live sync enabled", "device_id", dev.ID)
	}

	if node == nil {
		return
	}
	c.dispatcher.Dispatch(ctx, dev, node, Event{
		Interface: ev.Interface,
		Property:  ev.Property,
		Payload:   ev.Payload,
	})
}

// handleRemoval stops forwarding for a removed device. The bridged node
// stays until restart; session-side decommissioning is deferred.
func (c *Controller) handleRemoval(ctx context.Context, deviceID string) {
	lock := c.locks.get(deviceID)
	lock.Lock()
	defer lock.Unlock()

	if err := c.synced.Unmark(ctx, deviceID); err != nil {
		c.logError("unmarking removed device", "device_id", deviceID, "error", err)
		return
	}
	c.logInfo("device removed; forwarding stopped, node retained until restart",
		"device_id", deviceID)
}

// ensureNode discovers the bridge node for a device, at most once per
// device per process. Returns nil when discovery was already attempted
// without a node, when no adapter exists, or when the capability is
// missing.
//
// Callers hold the per-device lock, so at most one discovery runs for a
// given device. nodesMu only guards the shared maps; adapter and session
// calls may suspend on I/O and must not hold it, or one stuck device
// would stall every other device's event handling.
func (c *Controller) ensureNode(ctx context.Context, dev *platform.Device) *Node {
	c.nodesMu.Lock()
	if node, ok := c.nodes[dev.ID]; ok {
		c.nodesMu.Unlock()
		return node
	}
	if c.discovered[dev.ID] {
		c.nodesMu.Unlock()
		return nil
	}
	c.discovered[dev.ID] = true
	c.nodesMu.Unlock()

	adapter, ok := c.registry.Lookup(dev.Category)
	if !ok {
		return nil
	}

	node, ok := adapter.Discover(ctx, dev)
	if !ok {
		c.logInfo("device lacks required capability",
			"device_id", dev.ID, "category", dev.Category)
		return nil
	}

	if err := c.session.AddBridgedNode(node); err != nil {
		c.logError("adding bridged node", "device_id", dev.ID, "error", err)
		c.nodesMu.Lock()
		delete(c.discovered, dev.ID)
		c.nodesMu.Unlock()
		return nil
	}

	c.nodesMu.Lock()
	c.nodes[dev.ID] = node
	c.nodesMu.Unlock()
	return node
}

// Nodes returns a snapshot of the bridged nodes, keyed by device ID.
func (c *Controller) Nodes() map[string]*Node {
	c.nodesMu.RLock()
	defer c.nodesMu.RUnlock()

	snapshot := make(map[string]*Node, len(c.nodes))
	for id, node := range c.nodes {
		snapshot[id] = node
	}
	return snapshot
}

// NodeCount returns the number of bridged nodes.
func (c *Controller) NodeCount() int {
	c.nodesMu.RLock()
	defer c.nodesMu.RUnlock()
	return len(c.nodes)
}

func (c *Controller) runContext() context.Context {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}

func (c *Controller) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Controller) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}
