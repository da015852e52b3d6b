// Package platform implements the client side of the home-automation
// platform's MQTT API.
//
// The platform exposes three surfaces:
//
//   - A request/response API on platform/request, with per-request response
//     topics (platform/response/{request_id}) correlated by UUID. This
//     carries device enumeration, device lookup, and attachment mutation.
//   - A command topic per device (platform/command/{device_id}) for
//     actuation: turn-on, turn-off, level changes.
//   - An event topic per device (platform/event/{device_id}) carrying
//     state-change events as (interface, property, payload) tuples; the
//     live feed subscribes to the wildcard.
//
// Client wraps these into typed methods. All request/response calls honour
// context cancellation and a configurable timeout; event delivery via
// Listen runs on the MQTT client's handler goroutines.
package platform
