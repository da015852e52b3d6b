package bridge

import (
	"context"
	"sync"
)

// CommandHandler actuates the platform device behind a node when the
// bridge-network side issues a command.
type CommandHandler func(ctx context.Context, command string, params map[string]any) error

// Node is the bridge-network-facing representation of one platform
// device. Adapters create nodes during discovery, install their command
// handler, and push state updates into them when events arrive.
//
// All methods are safe for concurrent use.
type Node struct {
	deviceID string
	label    string
	category string

	mu      sync.RWMutex
	state   map[string]any
	handler CommandHandler
}

// NewNode creates a node for the given platform device.
func NewNode(deviceID, label, category string) *Node {
	return &Node{
		deviceID: deviceID,
		label:    label,
		category: category,
		state:    make(map[string]any),
	}
}

// DeviceID returns the platform device identifier this node bridges.
func (n *Node) DeviceID() string { return n.deviceID }

// Label returns the human-readable node name.
func (n *Node) Label() string { return n.label }

// Category returns the device category the node was discovered under.
func (n *Node) Category() string { return n.category }

// SetCommandHandler installs the node's command handler. The handler is
// a single slot: installing again replaces the previous handler, so
// repeated discovery of the same device never accumulates duplicate
// handlers causing double actuation.
func (n *Node) SetCommandHandler(handler CommandHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// HandleCommand invokes the installed command handler.
// Returns ErrNoCommandHandler if discovery has not installed one yet.
func (n *Node) HandleCommand(ctx context.Context, command string, params map[string]any) error {
	n.mu.RLock()
	handler := n.handler
	n.mu.RUnlock()

	if handler == nil {
		return ErrNoCommandHandler
	}
	return handler(ctx, command, params)
}

// SetState updates one state property on the node.
func (n *Node) SetState(property string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state[property] = value
}

// State returns a snapshot of the node's current state.
func (n *Node) State() map[string]any {
	n.mu.RLock()
	defer n.mu.RUnlock()

	snapshot := make(map[string]any, len(n.state))
	for k, v := range n.state {
		snapshot[k] = v
	}
	return snapshot
}
