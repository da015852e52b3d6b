package bridge

import (
	"context"
	"fmt"

	"github.com/hallgate/mattergate/internal/store"
)

// syncContexts is the namespaced-store context for synced-set membership.
var syncContexts = []string{"bridge", "sync"}

// SyncSet tracks which devices have live event forwarding enabled.
// Membership is managed explicitly and persisted, so restarts keep
// forwarding for devices already known to be live.
type SyncSet struct {
	store *store.Store
}

// NewSyncSet creates a synced-device set over the namespaced store.
func NewSyncSet(s *store.Store) *SyncSet {
	return &SyncSet{store: s}
}

// IsSynced reports whether live forwarding is enabled for a device.
func (s *SyncSet) IsSynced(ctx context.Context, deviceID string) (bool, error) {
	var synced bool
	found, err := s.store.Get(ctx, syncContexts, deviceID, &synced)
	if err != nil {
		return false, fmt.Errorf("reading sync membership for %s: %w", deviceID, err)
	}
	return found && synced, nil
}

// Mark enables live forwarding for a device.
func (s *SyncSet) Mark(ctx context.Context, deviceID string) error {
	if err := s.store.Set(ctx, syncContexts, deviceID, true); err != nil {
		return fmt.Errorf("marking %s synced: %w", deviceID, err)
	}
	return nil
}

// Unmark disables live forwarding for a device.
func (s *SyncSet) Unmark(ctx context.Context, deviceID string) error {
	if err := s.store.Delete(ctx, syncContexts, deviceID); err != nil {
		return fmt.Errorf("unmarking %s synced: %w", deviceID, err)
	}
	return nil
}
