// Package store provides typed record access over any types.Store backend.
// Records are encoded as JSON. A stored value that does not decode into the
// requested type is treated as absent rather than as a failure.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Get decodes the record stored under (entityType, id). ok is false when the
// key is absent or the stored value does not decode into T. err is non-nil
// only for backend faults.
func Get[T any](s types.Store, entityType, id string) (rec T, ok bool, err error) {
	raw, found, err := s.Get(entityType, id)
	if err != nil || !found {
		return rec, false, err
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		var zero T
		return zero, false, nil
	}
	return rec, true, nil
}

// GetAll decodes every record in the entity type namespace, skipping values
// that do not decode into T. Order is unspecified.
func GetAll[T any](s types.Store, entityType string) ([]T, error) {
	raws, err := s.GetAll(entityType)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Set encodes rec and writes it under (entityType, rec.RecordID()),
// replacing any prior value. An encoding failure returns ErrSerialization
// and leaves the stored value untouched.
func Set[T types.Record](s types.Store, entityType string, rec T) error {
	id := rec.RecordID()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", types.ErrSerialization, entityType, id, err)
	}
	return s.Set(entityType, id, data)
}

// Remove deletes (entityType, id). Absent keys are not an error.
func Remove(s types.Store, entityType, id string) error {
	return s.Remove(entityType, id)
}

// Collection binds a record type to its entity type namespace.
type Collection[T types.Record] struct {
	store      types.Store
	entityType string
}

// NewCollection returns a Collection of T stored under entityType.
func NewCollection[T types.Record](s types.Store, entityType string) Collection[T] {
	return Collection[T]{store: s, entityType: entityType}
}

// EntityType returns the namespace the collection reads and writes.
func (c Collection[T]) EntityType() string { return c.entityType }

// Get returns the record with the given id; see Get.
func (c Collection[T]) Get(id string) (T, bool, error) {
	return Get[T](c.store, c.entityType, id)
}

// GetAll returns every record in the collection; see GetAll.
func (c Collection[T]) GetAll() ([]T, error) {
	return GetAll[T](c.store, c.entityType)
}

// Set writes rec; see Set.
func (c Collection[T]) Set(rec T) error {
	return Set(c.store, c.entityType, rec)
}

// Remove deletes the record with the given id; see Remove.
func (c Collection[T]) Remove(id string) error {
	return Remove(c.store, c.entityType, id)
}
