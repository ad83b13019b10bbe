// Package audit records append-only audit entries through the key-value
// store. Writes are best effort: a failed write is logged and counted, and
// business callers are free to ignore the returned error.
package audit

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/metrics"
	"github.com/mesh-intelligence/blueprint/pkg/store"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// signaturePrefix marks the placeholder signature. It is not verifiable.
const signaturePrefix = "SIG_"

// Log writes and reads audit entries. It exposes no update or delete.
type Log struct {
	entries store.Collection[types.AuditLogEntry]
	actorID string
	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Log.
type Option func(*Log)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Log) { a.log = logging.Component(l, "audit") }
}

// WithMetrics counts writes and failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Log) { a.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Log) { a.now = now }
}

// New returns an audit log over s. Entries are attributed to the fixed user
// account.
func New(s types.Store, opts ...Option) *Log {
	a := &Log{
		entries: store.NewCollection[types.AuditLogEntry](s, types.EntityAuditLog),
		actorID: types.UserID,
		now:     time.Now,
		log:     logging.Component(nil, "audit"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RecordEvent builds an entry and persists it. An empty status means
// SUCCESS. Invalid input is rejected before anything is written. A store
// failure is logged at warn level and returned.
func (a *Log) RecordEvent(eventType types.AuditEventType, entityType, entityID, message string, status types.AuditStatus) (types.AuditLogEntry, error) {
	if status == "" {
		status = types.AuditSuccess
	}
	if status != types.AuditSuccess && status != types.AuditFailure {
		return types.AuditLogEntry{}, fmt.Errorf("%w: %q", types.ErrInvalidAuditStatus, status)
	}
	if !eventType.Valid() {
		return types.AuditLogEntry{}, fmt.Errorf("%w: unknown audit event type %q", types.ErrValidation, eventType)
	}

	id := types.NewID()
	entry := types.AuditLogEntry{
		ID:          id,
		Timestamp:   a.now().UTC(),
		ActorID:     a.actorID,
		EventType:   eventType,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadHash: PayloadHash(message),
		Signature:   signaturePrefix + id,
		Status:      status,
		Message:     message,
	}

	fields := logrus.Fields{
		"event_type":  eventType,
		"entity_type": entityType,
		"entity_id":   entityID,
	}
	if err := a.entries.Set(entry); err != nil {
		a.metrics.AuditWrite(false)
		a.log.WithFields(fields).WithError(err).Warn("audit write failed")
		return entry, fmt.Errorf("record %s: %w", eventType, err)
	}
	a.metrics.AuditWrite(true)
	a.log.WithFields(fields).Info(message)
	return entry, nil
}

// GetAllLogs returns every entry, newest first. Entries with equal
// timestamps are ordered by id, descending.
func (a *Log) GetAllLogs() ([]types.AuditLogEntry, error) {
	logs, err := a.entries.GetAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		}
		return logs[i].ID > logs[j].ID
	})
	return logs, nil
}

// PayloadHash returns the 16 hex digit xxhash64 digest of message.
func PayloadHash(message string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(message))
}
