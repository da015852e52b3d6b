package bridge

import (
	"context"
	"testing"

	"github.com/hallgate/mattergate/internal/platform"
)

// stubAdapter is a configurable Adapter for unit tests.
type stubAdapter struct {
	name         string
	discoverOK   bool
	sendStatus   EventStatus
	discoverCnt  int
	sendEventCnt int
}

func (a *stubAdapter) Discover(_ context.Context, dev *platform.Device) (*Node, bool) {
	a.discoverCnt++
	if !a.discoverOK {
		return nil, false
	}
	node := NewNode(dev.ID, dev.Label, dev.Category)
	node.SetCommandHandler(func(context.Context, string, map[string]any) error { return nil })
	return node, true
}

func (a *stubAdapter) SendEvent(_ context.Context, node *Node, ev Event) EventStatus {
	a.sendEventCnt++
	if a.sendStatus == StatusHandled && node != nil {
		node.SetState(ev.Property, ev.Payload)
	}
	return a.sendStatus
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	adapter := &stubAdapter{name: "switch"}
	r.Register("switch", adapter)

	got, ok := r.Lookup("switch")
	if !ok {
		t.Fatal("Lookup(switch) ok = false, want true")
	}
	if got != adapter {
		t.Error("Lookup(switch) returned wrong adapter")
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("thermostat"); ok {
		t.Error("Lookup(thermostat) ok = true for unknown category, want false")
	}
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()
	first := &stubAdapter{name: "first"}
	second := &stubAdapter{name: "second"}

	r.Register("switch", first)
	r.Register("switch", second)

	got, ok := r.Lookup("switch")
	if !ok || got != second {
		t.Errorf("Lookup(switch) = %v, want the second registration", got)
	}
}

func TestRegistryCategories(t *testing.T) {
	r := NewRegistry()
	r.Register("switch", &stubAdapter{})
	r.Register("light", &stubAdapter{})
	r.Register("outlet", &stubAdapter{})

	got := r.Categories()
	want := []string{"light", "outlet", "switch"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
