package platform

import (
	"encoding/json"
	"time"
)

// MQTT message types for communication between Mattergate and the platform.

// Request actions understood by the platform's request/response API.
const (
	ActionListDevices    = "list_devices"
	ActionGetDevice      = "get_device"
	ActionSetAttachments = "set_attachments"
)

// Device is the platform's view of one device.
type Device struct {
	// ID is the platform device identifier.
	ID string `json:"id"`

	// Label is the human-readable device name.
	Label string `json:"label,omitempty"`

	// Category is the device category (e.g., "switch", "light", "outlet").
	// Adapter lookup is keyed by this value.
	Category string `json:"category"`

	// Capabilities lists the device's capability identifiers
	// (e.g., ["onOff", "level"]).
	Capabilities []string `json:"capabilities,omitempty"`

	// Attachments is the device's attachment list. Enrollment appends the
	// bridge controller's identity here.
	Attachments []string `json:"attachments,omitempty"`

	// Attributes contains current attribute values keyed by name.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// HasCapability reports whether the device exposes the given capability.
func (d *Device) HasCapability(capability string) bool {
	for _, c := range d.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// HasAttachment reports whether the device's attachment list contains id.
func (d *Device) HasAttachment(id string) bool {
	for _, a := range d.Attachments {
		if a == id {
			return true
		}
	}
	return false
}

// RequestMessage is sent from Mattergate to the platform.
// Topic: platform/request
type RequestMessage struct {
	// RequestID uniquely identifies this request for correlation.
	RequestID string `json:"request_id"`

	// Timestamp is when the request was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// Action is the requested operation.
	Action string `json:"action"`

	// DeviceID is the target device (for device-specific actions).
	DeviceID string `json:"device_id,omitempty"`

	// Attachments is the full replacement attachment list
	// (set_attachments only).
	Attachments []string `json:"attachments,omitempty"`
}

// ResponseMessage is sent from the platform in response to a request.
// Topic: platform/response/{request_id}
type ResponseMessage struct {
	// RequestID is the ID from the original request.
	RequestID string `json:"request_id"`

	// Timestamp is when the response was generated (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// Success indicates whether the request succeeded.
	Success bool `json:"success"`

	// Data contains the response payload (if successful). Its shape
	// depends on the action; callers decode it into the matching type.
	Data json.RawMessage `json:"data,omitempty"`

	// Error contains error details (if failed).
	Error *ResponseError `json:"error,omitempty"`
}

// ResponseError contains error details for failed requests.
type ResponseError struct {
	// Code is the error code (e.g., "DEVICE_NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`
}

// Error codes returned by the platform.
const (
	ErrCodeDeviceNotFound = "DEVICE_NOT_FOUND"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodePlatformError  = "PLATFORM_ERROR"
)

// listDevicesData is the data payload of a list_devices response.
type listDevicesData struct {
	DeviceIDs []string `json:"device_ids"`
}

// getDeviceData is the data payload of a get_device response.
type getDeviceData struct {
	Device Device `json:"device"`
}

// CommandMessage is sent from Mattergate to actuate a device.
// Topic: platform/command/{device_id}
type CommandMessage struct {
	// ID uniquely identifies this command.
	ID string `json:"id"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// DeviceID is the platform device identifier.
	DeviceID string `json:"device_id"`

	// Command is the command name (e.g., "on", "off", "setLevel").
	Command string `json:"command"`

	// Parameters contains command-specific values.
	// Example: {"level": 50} for setLevel.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Source identifies where the command originated ("bridge").
	Source string `json:"source"`
}

// EventMessage is published by the platform when device state changes.
// Topic: platform/event/{device_id}
type EventMessage struct {
	// DeviceID is the platform device identifier.
	DeviceID string `json:"device_id"`

	// Timestamp is when the event was observed (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// Interface is the capability interface the event belongs to
	// (e.g., "switch", "switchLevel", "healthCheck").
	Interface string `json:"interface"`

	// Property is the changed property within the interface.
	Property string `json:"property"`

	// Payload is the new value. Shape depends on the interface.
	Payload any `json:"payload"`
}
