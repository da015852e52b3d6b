package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Separator joins context segments and the key name into a scalar key.
const Separator = "."

// BuildKey composes context segments and a key name into a single scalar
// key, e.g. BuildKey([]string{"bridge", "enrollment"}, "d1") returns
// "bridge.enrollment.d1".
//
// It returns ErrInvalidKey when the key is empty, the context list is
// empty, or any context segment is empty or contains the separator.
func BuildKey(contexts []string, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if len(contexts) == 0 {
		return "", fmt.Errorf("%w: empty context list", ErrInvalidKey)
	}
	for _, segment := range contexts {
		if segment == "" {
			return "", fmt.Errorf("%w: empty context segment", ErrInvalidKey)
		}
		if strings.Contains(segment, Separator) {
			return "", fmt.Errorf("%w: context segment %q contains separator", ErrInvalidKey, segment)
		}
	}

	return strings.Join(contexts, Separator) + Separator + key, nil
}

// Store provides typed, namespaced access over a ScalarStore.
type Store struct {
	scalar ScalarStore
}

// New creates a namespaced store over the given scalar store.
func New(scalar ScalarStore) *Store {
	return &Store{scalar: scalar}
}

// Get reads the value under the namespaced key into dest, which must be a
// pointer suitable for json.Unmarshal. It returns found == false when the
// key does not exist; dest is left untouched in that case.
func (s *Store) Get(ctx context.Context, contexts []string, key string, dest any) (bool, error) {
	scalarKey, err := BuildKey(contexts, key)
	if err != nil {
		return false, err
	}

	raw, found, err := s.scalar.GetValue(ctx, scalarKey)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", scalarKey, err)
	}
	if !found {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decoding %s: %w", scalarKey, err)
	}
	return true, nil
}

// Set writes value under the namespaced key, creating or replacing it.
func (s *Store) Set(ctx context.Context, contexts []string, key string, value any) error {
	scalarKey, err := BuildKey(contexts, key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", scalarKey, err)
	}

	if err := s.scalar.SetValue(ctx, scalarKey, string(raw)); err != nil {
		return fmt.Errorf("writing %s: %w", scalarKey, err)
	}
	return nil
}

// Delete removes the namespaced key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, contexts []string, key string) error {
	scalarKey, err := BuildKey(contexts, key)
	if err != nil {
		return err
	}

	if err := s.scalar.DeleteValue(ctx, scalarKey); err != nil {
		return fmt.Errorf("deleting %s: %w", scalarKey, err)
	}
	return nil
}
