package adapters

import (
	"context"

	"github.com/hallgate/mattergate/internal/bridge"
	"github.com/hallgate/mattergate/internal/platform"
)

// OutletAdapter bridges smart outlets: on/off control plus passive power
// readings when the outlet reports them.
type OutletAdapter struct {
	commander Commander
}

// NewOutletAdapter creates the outlet-category adapter.
func NewOutletAdapter(commander Commander) *OutletAdapter {
	return &OutletAdapter{commander: commander}
}

// Discover returns a node when the outlet exposes on/off control.
func (a *OutletAdapter) Discover(_ context.Context, dev *platform.Device) (*bridge.Node, bool) {
	if !dev.HasCapability(capOnOff) {
		return nil, false
	}

	node := bridge.NewNode(dev.ID, nodeLabel(dev.ID, dev.Label), dev.Category)
	node.SetCommandHandler(onOffHandler(a.commander, dev.ID))
	return node, true
}

// SendEvent applies switch state and power readings to the node.
func (a *OutletAdapter) SendEvent(_ context.Context, node *bridge.Node, ev bridge.Event) bridge.EventStatus {
	switch ev.Interface {
	case ifaceSwitch:
		on, ok := onOffPayload(ev.Payload)
		if !ok {
			return bridge.StatusUnhandled
		}
		node.SetState("on", on)
		return bridge.StatusHandled
	case ifacePowerMeter:
		power, ok := ev.Payload.(float64)
		if !ok {
			return bridge.StatusUnhandled
		}
		node.SetState("power", power)
		return bridge.StatusHandled
	default:
		return bridge.StatusNotSupported
	}
}
