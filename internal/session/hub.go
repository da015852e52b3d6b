package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hallgate/mattergate/internal/bridge"
)

// Domain-specific errors for session operations.
var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session: already started")

	// ErrNilNode is returned when a nil node is added.
	ErrNilNode = errors.New("session: nil node")
)

// Default pairing parameters, overridable per deployment.
const (
	defaultPasscode      uint32 = 20202021
	defaultDiscriminator uint16 = 3840

	// firstEndpoint is where bridged-node endpoint allocation begins;
	// endpoint 0 is the hub itself.
	firstEndpoint uint16 = 1
)

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// PairingInfo is the commissioning information shown to the operator.
// Purely informational; nothing in the bridge core depends on it.
type PairingInfo struct {
	Passcode      uint32 `json:"passcode"`
	Discriminator uint16 `json:"discriminator"`
	ManualCode    string `json:"manual_code"`
}

// NodeInfo is a read-only snapshot of one bridged node.
type NodeInfo struct {
	Endpoint uint16         `json:"endpoint"`
	DeviceID string         `json:"device_id"`
	Label    string         `json:"label"`
	Category string         `json:"category"`
	State    map[string]any `json:"state"`
}

// Hub aggregates bridged nodes into one bridge-network session.
//
// All methods are safe for concurrent use.
type Hub struct {
	name string

	mu           sync.RWMutex
	nodes        map[uint16]*bridge.Node
	byDevice     map[string]uint16
	nextEndpoint uint16
	started      bool

	pairing PairingInfo
	logger  Logger
}

// HubOptions holds configuration for creating a hub.
type HubOptions struct {
	// Name is the bridge's advertised name.
	Name string

	// Passcode and Discriminator override the default pairing
	// parameters. Zero means default.
	Passcode      uint32
	Discriminator uint16

	// Logger is optional structured logging.
	Logger Logger
}

// NewHub creates a bridge session hub. Call Start once enumeration has
// completed.
func NewHub(opts HubOptions) *Hub {
	passcode := opts.Passcode
	if passcode == 0 {
		passcode = defaultPasscode
	}
	discriminator := opts.Discriminator
	if discriminator == 0 {
		discriminator = defaultDiscriminator
	}

	return &Hub{
		name:         opts.Name,
		nodes:        make(map[uint16]*bridge.Node),
		byDevice:     make(map[string]uint16),
		nextEndpoint: firstEndpoint,
		pairing: PairingInfo{
			Passcode:      passcode,
			Discriminator: discriminator,
			ManualCode:    manualCode(passcode, discriminator),
		},
		logger: opts.Logger,
	}
}

// AddBridgedNode registers a node and allocates its endpoint. A node for
// a device that already has an endpoint reuses it. Nodes may be added
// before and after Start.
func (h *Hub) AddBridgedNode(node *bridge.Node) error {
	if node == nil {
		return ErrNilNode
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	endpoint, ok := h.byDevice[node.DeviceID()]
	if !ok {
		endpoint = h.nextEndpoint
		h.nextEndpoint++
		h.byDevice[node.DeviceID()] = endpoint
	}
	h.nodes[endpoint] = node

	if h.logger != nil {
		h.logger.Info("bridged node registered",
			"device_id", node.DeviceID(),
			"category", node.Category(),
			"endpoint", endpoint)
	}
	return nil
}

// Start brings the session online. It must be called exactly once;
// subsequent calls return ErrAlreadyStarted.
func (h *Hub) Start(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return ErrAlreadyStarted
	}
	h.started = true

	if h.logger != nil {
		h.logger.Info("bridge session online",
			"name", h.name,
			"nodes", len(h.nodes),
			"manual_code", h.pairing.ManualCode)
	}
	return nil
}

// Started reports whether the session is online.
func (h *Hub) Started() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}

// NodeCount returns the number of bridged nodes.
func (h *Hub) NodeCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes)
}

// Nodes returns snapshots of all bridged nodes, ordered by endpoint.
func (h *Hub) Nodes() []NodeInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]NodeInfo, 0, len(h.nodes))
	for endpoint := firstEndpoint; endpoint < h.nextEndpoint; endpoint++ {
		node, ok := h.nodes[endpoint]
		if !ok {
			continue
		}
		infos = append(infos, NodeInfo{
			Endpoint: endpoint,
			DeviceID: node.DeviceID(),
			Label:    node.Label(),
			Category: node.Category(),
			State:    node.State(),
		})
	}
	return infos
}

// Pairing returns the session's commissioning information.
func (h *Hub) Pairing() PairingInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pairing
}

// manualCode renders the pairing parameters as the 11-digit manual code
// shape operators expect. Informational only.
func manualCode(passcode uint32, discriminator uint16) string {
	short := discriminator >> 8
	return fmt.Sprintf("%01d%04d-%03d-%04d",
		short,
		passcode/10000,
		(passcode%10000)/10,
		(passcode%10)*1000+uint32(discriminator&0xFF))
}
