package adapters

import (
	"context"
	"fmt"

	"github.com/hallgate/mattergate/internal/bridge"
	"github.com/hallgate/mattergate/internal/platform"
)

// LightAdapter bridges lights: on/off control plus optional dimming.
type LightAdapter struct {
	commander Commander
}

// NewLightAdapter creates the light-category adapter.
func NewLightAdapter(commander Commander) *LightAdapter {
	return &LightAdapter{commander: commander}
}

// Discover returns a node when the light exposes on/off control.
// Dimming is optional; a light without the level capability still
// bridges as an on/off light.
func (a *LightAdapter) Discover(_ context.Context, dev *platform.Device) (*bridge.Node, bool) {
	if !dev.HasCapability(capOnOff) {
		return nil, false
	}

	node := bridge.NewNode(dev.ID, nodeLabel(dev.ID, dev.Label), dev.Category)
	dimmable := dev.HasCapability(capLevel)
	node.SetCommandHandler(func(ctx context.Context, command string, params map[string]any) error {
		switch command {
		case "on", "off":
			return a.commander.SendCommand(ctx, dev.ID, command, nil)
		case "setLevel":
			if !dimmable {
				return fmt.Errorf("device %s does not support dimming", dev.ID)
			}
			return a.commander.SendCommand(ctx, dev.ID, "setLevel", params)
		default:
			return fmt.Errorf("unsupported command %q for %s", command, dev.ID)
		}
	})
	return node, true
}

// SendEvent applies switch and level state changes to the node.
func (a *LightAdapter) SendEvent(_ context.Context, node *bridge.Node, ev bridge.Event) bridge.EventStatus {
	switch ev.Interface {
	case ifaceSwitch:
		on, ok := onOffPayload(ev.Payload)
		if !ok {
			return bridge.StatusUnhandled
		}
		node.SetState("on", on)
		return bridge.StatusHandled
	case ifaceSwitchLevel:
		level, ok := levelPayload(ev.Payload)
		if !ok {
			return bridge.StatusUnhandled
		}
		node.SetState("level", level)
		return bridge.StatusHandled
	default:
		return bridge.StatusNotSupported
	}
}
