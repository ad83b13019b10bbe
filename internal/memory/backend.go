// Package memory implements an in-process key-value backend. Nothing
// survives Detach; it serves tests and ephemeral runs.
package memory

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Backend implements types.Backend over a map keyed by composite key.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	prefix   string
	values   map[string][]byte
}

// NewBackend returns a detached memory backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates config and starts with an empty key space.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	b.prefix = config.Prefix()
	b.values = make(map[string][]byte)
	b.attached = true
	return nil
}

// Detach drops all values. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.values = nil
	return nil
}

// Get implements types.Store.
func (b *Backend) Get(entityType, id string) ([]byte, bool, error) {
	if err := types.ValidateKey(entityType, id); err != nil {
		return nil, false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, false, types.ErrStoreDetached
	}
	v, ok := b.values[types.RecordKey(b.prefix, entityType, id)]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// GetAll implements types.Store. Map iteration order is random, which keeps
// callers honest about sorting.
func (b *Backend) GetAll(entityType string) ([][]byte, error) {
	if err := types.ValidateEntityType(entityType); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	ns := types.NamespacePrefix(b.prefix, entityType)
	var out [][]byte
	for k, v := range b.values {
		if strings.HasPrefix(k, ns) {
			out = append(out, clone(v))
		}
	}
	return out, nil
}

// Set implements types.Store.
func (b *Backend) Set(entityType, id string, value []byte) error {
	if err := types.ValidateKey(entityType, id); err != nil {
		return err
	}
	if !json.Valid(value) {
		return types.ErrSerialization
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	b.values[types.RecordKey(b.prefix, entityType, id)] = clone(value)
	return nil
}

// Remove implements types.Store.
func (b *Backend) Remove(entityType, id string) error {
	if err := types.ValidateKey(entityType, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	delete(b.values, types.RecordKey(b.prefix, entityType, id))
	return nil
}

// SetRaw writes bytes without JSON validation. Tests use it to plant
// malformed values.
func (b *Backend) SetRaw(entityType, id string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.attached {
		b.values[types.RecordKey(b.prefix, entityType, id)] = clone(value)
	}
}

func clone(v []byte) []byte {
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp
}
