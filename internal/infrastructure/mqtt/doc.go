// Package mqtt provides the MQTT client used to reach the home-automation
// platform.
//
// It wraps paho.mqtt.golang with:
//   - Connection management with auto-reconnect and exponential backoff
//   - Last Will and Testament for offline detection
//   - Subscription tracking with automatic re-subscription on reconnect
//   - Panic-recovering message handlers
//
// All platform traffic (device enumeration, lookups, attachment mutation,
// commands, and the live event feed) flows through this client; see
// internal/platform for the message-level protocol.
//
// Thread Safety: all methods are safe for concurrent use.
package mqtt
