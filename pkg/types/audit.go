package types

import "time"

// AuditEventType names a domain action recorded in the audit log.
type AuditEventType string

// Audit event types.
const (
	EventProfileUpdated     AuditEventType = "PROFILE_UPDATED"
	EventGoalCreated        AuditEventType = "GOAL_CREATED"
	EventGoalUpdated        AuditEventType = "GOAL_UPDATED"
	EventGoalDeleted        AuditEventType = "GOAL_DELETED"
	EventAITaskCompleted    AuditEventType = "AI_TASK_COMPLETED"
	EventTokenIssued        AuditEventType = "TOKEN_ISSUED"
	EventTokenTransferred   AuditEventType = "TOKEN_TRANSFERRED"
	EventPaymentProcessed   AuditEventType = "PAYMENT_PROCESSED"
	EventIdentityVerified   AuditEventType = "IDENTITY_VERIFIED"
	EventAccessDenied       AuditEventType = "ACCESS_DENIED"
	EventApplicationAdded   AuditEventType = "APPLICATION_ADDED"
	EventApplicationUpdated AuditEventType = "APPLICATION_UPDATED"
	EventSessionScheduled   AuditEventType = "SESSION_SCHEDULED"
)

var validAuditEventTypes = map[AuditEventType]bool{
	EventProfileUpdated:     true,
	EventGoalCreated:        true,
	EventGoalUpdated:        true,
	EventGoalDeleted:        true,
	EventAITaskCompleted:    true,
	EventTokenIssued:        true,
	EventTokenTransferred:   true,
	EventPaymentProcessed:   true,
	EventIdentityVerified:   true,
	EventAccessDenied:       true,
	EventApplicationAdded:   true,
	EventApplicationUpdated: true,
	EventSessionScheduled:   true,
}

// Valid reports whether e is a known event type.
func (e AuditEventType) Valid() bool {
	return validAuditEventTypes[e]
}

// AuditStatus is the outcome recorded with an audit entry.
type AuditStatus string

// Audit statuses.
const (
	AuditSuccess AuditStatus = "SUCCESS"
	AuditFailure AuditStatus = "FAILURE"
)

// AuditLogEntry is one append-only audit record.
//
// PayloadHash is a short non-cryptographic digest of Message and Signature
// is an opaque placeholder. Neither proves anything.
type AuditLogEntry struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	ActorID     string         `json:"actorId"`
	EventType   AuditEventType `json:"eventType"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	PayloadHash string         `json:"payloadHash"`
	Signature   string         `json:"signature"`
	Status      AuditStatus    `json:"status"`
	Message     string         `json:"message"`
}

// RecordID implements Record.
func (e AuditLogEntry) RecordID() string { return e.ID }
