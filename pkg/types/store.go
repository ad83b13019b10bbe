package types

import (
	"errors"
	"fmt"
	"strings"
)

// Record is a persisted domain object. Its identity within an entity type
// namespace is RecordID.
type Record interface {
	RecordID() string
}

// Store is the raw key-value contract shared by all backends. Values are
// JSON documents; typed access lives in package store.
type Store interface {
	// Get returns the value stored under (entityType, id). ok is false when
	// no value exists; err is reserved for backend faults.
	Get(entityType, id string) (value []byte, ok bool, err error)

	// GetAll returns every value in the entity type namespace. Order is the
	// backend's enumeration order and must not be relied on.
	GetAll(entityType string) ([][]byte, error)

	// Set writes value under (entityType, id), replacing any prior value.
	// Returns ErrSerialization if value is not a JSON document.
	Set(entityType, id string, value []byte) error

	// Remove deletes (entityType, id). Removing an absent key is a no-op.
	Remove(entityType, id string) error
}

// Backend is a Store with an attach/detach lifecycle.
type Backend interface {
	Store

	// Attach connects the backend to the storage described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases resources. Idempotent.
	// After Detach, store operations return ErrStoreDetached.
	Detach() error
}

// Store errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrSerialization     = errors.New("record serialization failed")
	ErrStoreDetached     = errors.New("store is detached")
	ErrAlreadyAttached   = errors.New("store is already attached")
	ErrInvalidEntityType = errors.New("invalid entity type")
)

// ErrValidation is the parent of every caller-input error. Specific
// validation errors wrap it, so errors.Is(err, ErrValidation) matches all of
// them.
var ErrValidation = errors.New("validation failed")

// Validation errors.
var (
	ErrInvalidID               = fmt.Errorf("%w: id must not be empty", ErrValidation)
	ErrInvalidAmount           = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidTokenType        = fmt.Errorf("%w: unknown token type", ErrValidation)
	ErrInvalidNotificationType = fmt.Errorf("%w: unknown notification type", ErrValidation)
	ErrInvalidAuditStatus      = fmt.Errorf("%w: unknown audit status", ErrValidation)
	ErrEmptyInput              = fmt.Errorf("%w: required input is empty", ErrValidation)
)

// AI gateway errors.
var (
	ErrAIAnalysis         = errors.New("ai analysis failed")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
)

// ValidateKey checks an (entityType, id) pair. Entity types may not contain
// the key separator so namespaces never overlap.
func ValidateKey(entityType, id string) error {
	if err := ValidateEntityType(entityType); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidID
	}
	return nil
}

// ValidateEntityType rejects empty entity types and those containing the
// key separator.
func ValidateEntityType(entityType string) error {
	if entityType == "" || strings.Contains(entityType, KeySeparator) {
		return fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}
	return nil
}

// KeySeparator joins entity type and id in a composite key.
const KeySeparator = "_"

// RecordKey returns the composite storage key prefix + entityType + "_" + id.
func RecordKey(prefix, entityType, id string) string {
	return NamespacePrefix(prefix, entityType) + id
}

// NamespacePrefix returns the key prefix shared by every record of
// entityType.
func NamespacePrefix(prefix, entityType string) string {
	return prefix + entityType + KeySeparator
}
