package bridge

import (
	"context"
	"fmt"

	"github.com/hallgate/mattergate/internal/platform"
	"github.com/hallgate/mattergate/internal/store"
)

// enrollContexts is the namespaced-store context for enrollment records.
var enrollContexts = []string{"bridge", "enrollment"}

// EnrollResult is the outcome of one enrollment evaluation.
type EnrollResult int

const (
	// EnrollNotSupported means the device cannot be bridged: invalid
	// reference or no adapter for its category. Stable until the device's
	// category or capability set changes.
	EnrollNotSupported EnrollResult = iota

	// EnrollAlreadySetup means the device is enrolled and its bridge node
	// is assumed to exist from a prior evaluation. Re-entrant; never
	// re-triggers discovery.
	EnrollAlreadySetup

	// EnrollSetup means enrollment was just performed. One-shot: the
	// caller must run discovery and register the new bridge node.
	EnrollSetup
)

// String returns the result name for logging.
func (r EnrollResult) String() string {
	switch r {
	case EnrollNotSupported:
		return "not_supported"
	case EnrollAlreadySetup:
		return "already_setup"
	case EnrollSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// AttachmentMutator appends the controller identity to a device's
// attachment list. Satisfied by *platform.Client.
type AttachmentMutator interface {
	SetAttachments(ctx context.Context, deviceID string, attachments []string) error
}

// Enroller is the per-device enrollment state machine.
//
// It carries no per-device state of its own; everything persistent lives
// in the namespaced store. Callers serialize evaluations per device.
type Enroller struct {
	store    *store.Store
	registry *Registry
	mutator  AttachmentMutator

	// controllerID is the identity appended to device attachment lists.
	controllerID string

	// version is the current enrollment version token. Bumping it in
	// configuration forces re-setup of every enrolled device.
	version int
}

// EnrollerOptions holds configuration for creating an enroller.
type EnrollerOptions struct {
	Store        *store.Store
	Registry     *Registry
	Mutator      AttachmentMutator
	ControllerID string
	Version      int
}

// NewEnroller creates an enrollment state machine.
func NewEnroller(opts EnrollerOptions) *Enroller {
	return &Enroller{
		store:        opts.Store,
		registry:     opts.Registry,
		mutator:      opts.Mutator,
		controllerID: opts.ControllerID,
		version:      opts.Version,
	}
}

// Ensure evaluates the enrollment transition for one device and performs
// setup when needed.
//
// A persisted record carrying the current version token or newer means
// AlreadySetup; only a stale (older) token forces re-setup, even when the
// attachment list already names this controller. When no record exists
// but the device is attached (an earlier build that kept no records, or a
// setup whose record write failed), the current token is backfilled so
// version comparisons apply from then on. Setup appends the controller
// identity to the attachment list (skipped when already present) and then
// writes the current token. If the attachment mutation fails, the record
// is not written, so the next observation retries.
func (e *Enroller) Ensure(ctx context.Context, dev *platform.Device) (EnrollResult, error) {
	if dev == nil || dev.ID == "" {
		return EnrollNotSupported, nil
	}

	var recorded int
	found, err := e.store.Get(ctx, enrollContexts, dev.ID, &recorded)
	if err != nil {
		return EnrollNotSupported, fmt.Errorf("reading enrollment record for %s: %w", dev.ID, err)
	}

	if found && recorded >= e.version {
		return EnrollAlreadySetup, nil
	}
	if !found && dev.HasAttachment(e.controllerID) {
		// Backfill the missing record; without it a stale-token
		// comparison can never fire for this device.
		if err := e.store.Set(ctx, enrollContexts, dev.ID, e.version); err != nil {
			return EnrollNotSupported, fmt.Errorf("backfilling enrollment record for %s: %w", dev.ID, err)
		}
		return EnrollAlreadySetup, nil
	}

	if _, ok := e.registry.Lookup(dev.Category); !ok {
		return EnrollNotSupported, nil
	}

	if !dev.HasAttachment(e.controllerID) {
		attachments := append(append([]string{}, dev.Attachments...), e.controllerID)
		if err := e.mutator.SetAttachments(ctx, dev.ID, attachments); err != nil {
			return EnrollNotSupported, fmt.Errorf("enrolling %s: %w", dev.ID, err)
		}
	}

	if err := e.store.Set(ctx, enrollContexts, dev.ID, e.version); err != nil {
		return EnrollNotSupported, fmt.Errorf("writing enrollment record for %s: %w", dev.ID, err)
	}
	return EnrollSetup, nil
}
