package bridge

import (
	"context"

	"github.com/hallgate/mattergate/internal/platform"
)

// Event is one platform state-change observation as seen by an adapter.
type Event struct {
	// Interface is the capability interface the event belongs to
	// (e.g., "switch", "switchLevel").
	Interface string

	// Property is the changed property within the interface.
	Property string

	// Payload is the new value.
	Payload any
}

// EventStatus is the three-way outcome of translating one event.
type EventStatus int

const (
	// StatusHandled means the translation was applied to the node.
	StatusHandled EventStatus = iota

	// StatusUnhandled means the interface matched the adapter but the
	// payload could not be translated.
	StatusUnhandled

	// StatusNotSupported means the event's interface is not relevant to
	// this adapter. Expected and frequent; not an error.
	StatusNotSupported
)

// String returns the status name for logging.
func (s EventStatus) String() string {
	switch s {
	case StatusHandled:
		return "handled"
	case StatusUnhandled:
		return "unhandled"
	case StatusNotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// Adapter is the per-category translation unit between platform devices
// and bridge nodes. Implementations are stateless; all per-device state
// lives on the Node.
type Adapter interface {
	// Discover returns the bridge node for a device, or ok == false when
	// the device lacks the required capability despite the category
	// match. Discover must install the node's command handler; the
	// handler slot is single-valued, so repeated calls stay idempotent.
	Discover(ctx context.Context, dev *platform.Device) (node *Node, ok bool)

	// SendEvent translates one inbound platform event into a state
	// update on the node and reports how the event was classified.
	SendEvent(ctx context.Context, node *Node, ev Event) EventStatus
}
