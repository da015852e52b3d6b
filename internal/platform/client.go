package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hallgate/mattergate/internal/infrastructure/mqtt"
)

// Default timeouts for platform API operations.
const (
	defaultRequestTimeout = 10 * time.Second

	// qosAtLeastOnce is the QoS level for all platform traffic.
	qosAtLeastOnce byte = 1
)

// Transport is the MQTT surface the client needs. Satisfied by
// *mqtt.Client; narrowed for testing.
type Transport interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// EventHandler receives live platform events.
type EventHandler func(ev EventMessage)

// Client talks to the platform's MQTT API.
//
// All request/response methods are safe for concurrent use; each request
// runs on its own correlation topic.
type Client struct {
	transport Transport
	topics    mqtt.Topics
	timeout   time.Duration

	mu        sync.Mutex
	listening bool
	logger    Logger
}

// Options configures a platform client.
type Options struct {
	// RequestTimeout bounds each request/response round trip.
	// Zero means the default of 10 seconds.
	RequestTimeout time.Duration

	// Logger receives decode warnings from the event feed. Optional.
	Logger Logger
}

// NewClient creates a platform client over the given transport.
func NewClient(transport Transport, opts Options) *Client {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		transport: transport,
		timeout:   timeout,
		logger:    opts.Logger,
	}
}

// ListDeviceIDs enumerates all platform device identifiers.
func (c *Client) ListDeviceIDs(ctx context.Context) ([]string, error) {
	resp, err := c.request(ctx, RequestMessage{Action: ActionListDevices})
	if err != nil {
		return nil, err
	}

	var data listDevicesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding device list: %w", err)
	}
	return data.DeviceIDs, nil
}

// GetDevice looks up one device by identifier. found is false when the
// platform does not know the device; that is not an error.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (*Device, bool, error) {
	resp, err := c.request(ctx, RequestMessage{
		Action:   ActionGetDevice,
		DeviceID: deviceID,
	})
	if err != nil {
		if respErr := responseError(err); respErr != nil && respErr.Code == ErrCodeDeviceNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var data getDeviceData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, false, fmt.Errorf("decoding device %s: %w", deviceID, err)
	}
	return &data.Device, true, nil
}

// SetAttachments replaces a device's attachment list. A rejected mutation
// is reported as ErrAttachmentMutation so enrollment can retry later.
func (c *Client) SetAttachments(ctx context.Context, deviceID string, attachments []string) error {
	_, err := c.request(ctx, RequestMessage{
		Action:      ActionSetAttachments,
		DeviceID:    deviceID,
		Attachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("%w: device %s: %v", ErrAttachmentMutation, deviceID, err)
	}
	return nil
}

// SendCommand publishes an actuation command for a device. Commands are
// fire-and-forget; the resulting state change arrives on the event feed.
func (c *Client) SendCommand(ctx context.Context, deviceID, command string, params map[string]any) error {
	msg := CommandMessage{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		DeviceID:   deviceID,
		Command:    command,
		Parameters: params,
		Source:     "bridge",
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding command: %w", err)
	}

	if err := c.transport.Publish(c.topics.PlatformCommand(deviceID), payload, qosAtLeastOnce, false); err != nil {
		return fmt.Errorf("publishing command %s for %s: %w", command, deviceID, err)
	}
	return nil
}

// Listen subscribes to the live event feed and invokes handler for every
// decodable event. It may be called at most once; the subscription lasts
// for the lifetime of the underlying MQTT connection.
func (c *Client) Listen(handler EventHandler) error {
	c.mu.Lock()
	if c.listening {
		c.mu.Unlock()
		return ErrAlreadyListening
	}
	c.listening = true
	c.mu.Unlock()

	return c.transport.Subscribe(c.topics.AllPlatformEvents(), qosAtLeastOnce, func(topic string, payload []byte) error {
		var ev EventMessage
		if err := json.Unmarshal(payload, &ev); err != nil {
			if c.logger != nil {
				c.logger.Warn("dropping undecodable platform event",
					"topic", topic,
					"error", err)
			}
			return nil
		}
		handler(ev)
		return nil
	})
}

// request performs one correlated request/response round trip.
func (c *Client) request(ctx context.Context, msg RequestMessage) (*ResponseMessage, error) {
	msg.RequestID = uuid.NewString()
	msg.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", msg.Action, err)
	}

	respCh := make(chan ResponseMessage, 1)
	respTopic := c.topics.PlatformResponse(msg.RequestID)

	err = c.transport.Subscribe(respTopic, qosAtLeastOnce, func(_ string, payload []byte) error {
		var resp ResponseMessage
		if err := json.Unmarshal(payload, &resp); err != nil {
			return fmt.Errorf("decoding %s response: %w", msg.Action, err)
		}
		select {
		case respCh <- resp:
		default:
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing for %s response: %w", msg.Action, err)
	}
	defer func() { _ = c.transport.Unsubscribe(respTopic) }()

	if err := c.transport.Publish(c.topics.PlatformRequest(), payload, qosAtLeastOnce, false); err != nil {
		return nil, fmt.Errorf("publishing %s request: %w", msg.Action, err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp := <-respCh:
		if !resp.Success {
			return nil, &requestError{action: msg.Action, respErr: resp.Error}
		}
		return &resp, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s request: %w", msg.Action, ctx.Err())
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s after %s", ErrRequestTimeout, msg.Action, c.timeout)
	}
}

// requestError carries the platform's structured error through the
// ErrRequestFailed sentinel.
type requestError struct {
	action  string
	respErr *ResponseError
}

func (e *requestError) Error() string {
	if e.respErr != nil {
		return fmt.Sprintf("platform: %s request failed: %s: %s", e.action, e.respErr.Code, e.respErr.Message)
	}
	return fmt.Sprintf("platform: %s request failed", e.action)
}

func (e *requestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// responseError extracts the platform's structured error from an error
// chain, or nil when the error did not come from a platform response.
func responseError(err error) *ResponseError {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.respErr
	}
	return nil
}
