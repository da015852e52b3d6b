package platform

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hallgate/mattergate/internal/infrastructure/mqtt"
)

// mockTransport simulates the platform side of the MQTT API. A respond
// function inspects each published request and produces the response,
// which is delivered synchronously through the registered response-topic
// handler.
type mockTransport struct {
	mu       sync.Mutex
	handlers map[string]mqtt.MessageHandler
	respond  func(req RequestMessage) ResponseMessage

	published  []string // topics published to, in order
	publishErr error
}

func newMockTransport(respond func(req RequestMessage) ResponseMessage) *mockTransport {
	return &mockTransport{
		handlers: make(map[string]mqtt.MessageHandler),
		respond:  respond,
	}
}

func (m *mockTransport) Publish(topic string, payload []byte, _ byte, _ bool) error {
	m.mu.Lock()
	m.published = append(m.published, topic)
	publishErr := m.publishErr
	respond := m.respond
	m.mu.Unlock()

	if publishErr != nil {
		return publishErr
	}
	if topic != (mqtt.Topics{}).PlatformRequest() || respond == nil {
		return nil
	}

	var req RequestMessage
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}
	resp := respond(req)
	resp.RequestID = req.RequestID

	respPayload, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	m.mu.Lock()
	handler := m.handlers[(mqtt.Topics{}).PlatformResponse(req.RequestID)]
	m.mu.Unlock()
	if handler != nil {
		return handler((mqtt.Topics{}).PlatformResponse(req.RequestID), respPayload)
	}
	return nil
}

func (m *mockTransport) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	return nil
}

func (m *mockTransport) Unsubscribe(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, topic)
	return nil
}

func successResponse(data any) ResponseMessage {
	raw, _ := json.Marshal(data)
	return ResponseMessage{Success: true, Data: raw}
}

func TestListDeviceIDs(t *testing.T) {
	transport := newMockTransport(func(req RequestMessage) ResponseMessage {
		if req.Action != ActionListDevices {
			t.Errorf("action = %q, want %q", req.Action, ActionListDevices)
		}
		return successResponse(listDevicesData{DeviceIDs: []string{"d1", "d2"}})
	})
	c := NewClient(transport, Options{})

	ids, err := c.ListDeviceIDs(context.Background())
	if err != nil {
		t.Fatalf("ListDeviceIDs() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "d1" || ids[1] != "d2" {
		t.Errorf("ListDeviceIDs() = %v, want [d1 d2]", ids)
	}
}

func TestGetDevice(t *testing.T) {
	transport := newMockTransport(func(req RequestMessage) ResponseMessage {
		if req.DeviceID != "d1" {
			t.Errorf("device_id = %q, want d1", req.DeviceID)
		}
		return successResponse(getDeviceData{Device: Device{
			ID:           "d1",
			Category:     "switch",
			Capabilities: []string{"onOff"},
		}})
	})
	c := NewClient(transport, Options{})

	dev, found, err := c.GetDevice(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetDevice() error: %v", err)
	}
	if !found {
		t.Fatal("GetDevice() found = false, want true")
	}
	if dev.Category != "switch" || !dev.HasCapability("onOff") {
		t.Errorf("GetDevice() = %+v", dev)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	transport := newMockTransport(func(req RequestMessage) ResponseMessage {
		return ResponseMessage{
			Success: false,
			Error:   &ResponseError{Code: ErrCodeDeviceNotFound, Message: "unknown device"},
		}
	})
	c := NewClient(transport, Options{})

	dev, found, err := c.GetDevice(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetDevice() error: %v", err)
	}
	if found || dev != nil {
		t.Errorf("GetDevice() = (%v, %v), want (nil, false)", dev, found)
	}
}

func TestSetAttachments(t *testing.T) {
	var gotAttachments []string
	transport := newMockTransport(func(req RequestMessage) ResponseMessage {
		gotAttachments = req.Attachments
		return ResponseMessage{Success: true}
	})
	c := NewClient(transport, Options{})

	err := c.SetAttachments(context.Background(), "d1", []string{"existing", "mattergate"})
	if err != nil {
		t.Fatalf("SetAttachments() error: %v", err)
	}
	if len(gotAttachments) != 2 || gotAttachments[1] != "mattergate" {
		t.Errorf("attachments = %v", gotAttachments)
	}
}

func TestSetAttachmentsRejected(t *testing.T) {
	transport := newMockTransport(func(req RequestMessage) ResponseMessage {
		return ResponseMessage{
			Success: false,
			Error:   &ResponseError{Code: ErrCodePlatformError, Message: "mutation refused"},
		}
	})
	c := NewClient(transport, Options{})

	err := c.SetAttachments(context.Background(), "d1", []string{"mattergate"})
	if !errors.Is(err, ErrAttachmentMutation) {
		t.Errorf("SetAttachments() error = %v, want ErrAttachmentMutation", err)
	}
}

func TestRequestTimeout(t *testing.T) {
	// No responder: the response never arrives.
	transport := newMockTransport(nil)
	c := NewClient(transport, Options{RequestTimeout: 20 * time.Millisecond})

	_, err := c.ListDeviceIDs(context.Background())
	if !errors.Is(err, ErrRequestTimeout) {
		t.Errorf("ListDeviceIDs() error = %v, want ErrRequestTimeout", err)
	}
}

func TestRequestContextCancelled(t *testing.T) {
	transport := newMockTransport(nil)
	c := NewClient(transport, Options{RequestTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListDeviceIDs(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ListDeviceIDs() error = %v, want context.Canceled", err)
	}
}

func TestRequestUnsubscribesResponseTopic(t *testing.T) {
	transport := newMockTransport(func(req RequestMessage) ResponseMessage {
		return successResponse(listDevicesData{})
	})
	c := NewClient(transport, Options{})

	if _, err := c.ListDeviceIDs(context.Background()); err != nil {
		t.Fatalf("ListDeviceIDs() error: %v", err)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	for topic := range transport.handlers {
		if strings.HasPrefix(topic, "platform/response/") {
			t.Errorf("response subscription leaked: %s", topic)
		}
	}
}

func TestSendCommand(t *testing.T) {
	transport := newMockTransport(nil)
	c := NewClient(transport, Options{})

	err := c.SendCommand(context.Background(), "d1", "on", nil)
	if err != nil {
		t.Fatalf("SendCommand() error: %v", err)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.published) != 1 || transport.published[0] != "platform/command/d1" {
		t.Errorf("published topics = %v, want [platform/command/d1]", transport.published)
	}
}

func TestListen(t *testing.T) {
	transport := newMockTransport(nil)
	c := NewClient(transport, Options{})

	var (
		mu     sync.Mutex
		events []EventMessage
	)
	err := c.Listen(func(ev EventMessage) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}

	// Second Listen must be rejected.
	if err := c.Listen(func(EventMessage) {}); !errors.Is(err, ErrAlreadyListening) {
		t.Errorf("second Listen() error = %v, want ErrAlreadyListening", err)
	}

	transport.mu.Lock()
	handler := transport.handlers[(mqtt.Topics{}).AllPlatformEvents()]
	transport.mu.Unlock()
	if handler == nil {
		t.Fatal("Listen() did not subscribe to the event feed")
	}

	payload, _ := json.Marshal(EventMessage{
		DeviceID:  "d1",
		Interface: "switch",
		Property:  "switch",
		Payload:   "on",
	})
	if err := handler("platform/event/d1", payload); err != nil {
		t.Fatalf("event handler error: %v", err)
	}

	// Undecodable payloads are dropped, not propagated.
	if err := handler("platform/event/d1", []byte("{not json")); err != nil {
		t.Errorf("handler error for bad payload = %v, want nil", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 || events[0].Interface != "switch" || events[0].Payload != "on" {
		t.Errorf("events = %+v", events)
	}
}
