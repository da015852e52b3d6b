package mqtt

import "fmt"

// Topic prefixes for the platform MQTT contract.
//
// The platform exposes its device API under platform/, and Mattergate
// publishes its own lifecycle under mattergate/.
const (
	// TopicPrefixPlatform is the base for all platform topics.
	TopicPrefixPlatform = "platform"

	// TopicPrefixBridge is the base for Mattergate's own topics.
	TopicPrefixBridge = "mattergate"
)

// Topics provides builders for the MQTT topics Mattergate uses.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// PlatformRequest returns the topic for platform API requests
// (enumeration, device lookup, attachment mutation).
//
// Example: platform/request
func (Topics) PlatformRequest() string {
	return fmt.Sprintf("%s/request", TopicPrefixPlatform)
}

// PlatformResponse returns the topic a single request's response arrives on.
//
// Example: platform/response/req-abc123
func (Topics) PlatformResponse(requestID string) string {
	return fmt.Sprintf("%s/response/%s", TopicPrefixPlatform, requestID)
}

// PlatformCommand returns the topic for device commands (actuation).
//
// Example: platform/command/d1
func (Topics) PlatformCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefixPlatform, deviceID)
}

// PlatformEvent returns the topic a device's state-change events arrive on.
//
// Example: platform/event/d1
func (Topics) PlatformEvent(deviceID string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixPlatform, deviceID)
}

// AllPlatformEvents returns the wildcard subscription for the live event feed.
//
// Example: platform/event/+
func (Topics) AllPlatformEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefixPlatform)
}

// BridgeHealth returns the topic for Mattergate's periodic health status.
//
// Example: mattergate/health
func (Topics) BridgeHealth() string {
	return fmt.Sprintf("%s/health", TopicPrefixBridge)
}

// BridgeStatus returns the topic for Mattergate's online/offline status
// (set as LWT on connect).
//
// Example: mattergate/status
func (Topics) BridgeStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixBridge)
}
