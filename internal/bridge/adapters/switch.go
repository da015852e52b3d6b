package adapters

import (
	"context"
	"fmt"

	"github.com/hallgate/mattergate/internal/bridge"
	"github.com/hallgate/mattergate/internal/platform"
)

// SwitchAdapter bridges on/off switches.
type SwitchAdapter struct {
	commander Commander
}

// NewSwitchAdapter creates the switch-category adapter.
func NewSwitchAdapter(commander Commander) *SwitchAdapter {
	return &SwitchAdapter{commander: commander}
}

// Discover returns a node when the device exposes on/off control.
func (a *SwitchAdapter) Discover(_ context.Context, dev *platform.Device) (*bridge.Node, bool) {
	if !dev.HasCapability(capOnOff) {
		return nil, false
	}

	node := bridge.NewNode(dev.ID, nodeLabel(dev.ID, dev.Label), dev.Category)
	node.SetCommandHandler(onOffHandler(a.commander, dev.ID))
	return node, true
}

// SendEvent applies switch state changes to the node.
func (a *SwitchAdapter) SendEvent(_ context.Context, node *bridge.Node, ev bridge.Event) bridge.EventStatus {
	if ev.Interface != ifaceSwitch {
		return bridge.StatusNotSupported
	}

	on, ok := onOffPayload(ev.Payload)
	if !ok {
		return bridge.StatusUnhandled
	}
	node.SetState("on", on)
	return bridge.StatusHandled
}

// onOffHandler maps bridge-network on/off commands to platform actuation.
// Shared by every adapter with on/off control.
func onOffHandler(commander Commander, deviceID string) bridge.CommandHandler {
	return func(ctx context.Context, command string, _ map[string]any) error {
		switch command {
		case "on", "off":
			return commander.SendCommand(ctx, deviceID, command, nil)
		default:
			return fmt.Errorf("unsupported command %q for %s", command, deviceID)
		}
	}
}
