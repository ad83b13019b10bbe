package types

import "time"

// NotificationType classifies a notification for display.
type NotificationType string

// Notification types.
const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSuccess, NotificationInfo, NotificationWarning, NotificationError:
		return true
	}
	return false
}

// Notification is a transient, user-facing message. Notifications live only
// in process memory. Read moves one way, from false to true.
type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	Read       bool             `json:"read"`
	ActionLink string           `json:"actionLink,omitempty"`
}
