package adapters

import (
	"context"

	"github.com/hallgate/mattergate/internal/bridge"
)

// Device categories with adapter support.
const (
	CategorySwitch = "switch"
	CategoryLight  = "light"
	CategoryOutlet = "outlet"
)

// Capability identifiers the adapters key discovery on.
const (
	capOnOff = "onOff"
	capLevel = "level"
)

// Platform capability interfaces.
const (
	ifaceSwitch      = "switch"
	ifaceSwitchLevel = "switchLevel"
	ifacePowerMeter  = "powerMeter"
)

// Commander actuates platform devices. Satisfied by *platform.Client.
type Commander interface {
	SendCommand(ctx context.Context, deviceID, command string, params map[string]any) error
}

// RegisterAll registers every adapter with the registry.
func RegisterAll(registry *bridge.Registry, commander Commander) {
	registry.Register(CategorySwitch, NewSwitchAdapter(commander))
	registry.Register(CategoryLight, NewLightAdapter(commander))
	registry.Register(CategoryOutlet, NewOutletAdapter(commander))
}

// onOffPayload normalizes an on/off event payload to a bool.
func onOffPayload(payload any) (on, ok bool) {
	switch v := payload.(type) {
	case string:
		if v == "on" {
			return true, true
		}
		if v == "off" {
			return false, true
		}
		return false, false
	case bool:
		return v, true
	default:
		return false, false
	}
}

// levelPayload normalizes a level event payload to a float in [0, 100].
func levelPayload(payload any) (float64, bool) {
	var level float64
	switch v := payload.(type) {
	case float64:
		level = v
	case int:
		level = float64(v)
	default:
		return 0, false
	}
	if level < 0 || level > 100 {
		return 0, false
	}
	return level, true
}

// nodeLabel picks the node's display name.
func nodeLabel(id, label string) string {
	if label != "" {
		return label
	}
	return id
}
