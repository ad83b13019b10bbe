package types

// Entity type namespaces.
const (
	EntityProfile          = "Profile"
	EntityGoal             = "Goal"
	EntityApplication      = "Application"
	EntityAuditLog         = "AuditLog"
	EntityTokenTransaction = "TokenTransaction"
)

// StandardEntityTypes lists the namespaces the core reads or writes.
var StandardEntityTypes = []string{
	EntityProfile,
	EntityGoal,
	EntityApplication,
	EntityAuditLog,
	EntityTokenTransaction,
}

// AppendOnlyEntityTypes are never updated or removed after being written.
var AppendOnlyEntityTypes = map[string]bool{
	EntityAuditLog:         true,
	EntityTokenTransaction: true,
}

// Fixed account identities.
const (
	UserID           = "user_001"
	SystemID         = "system_orchestrator"
	DefaultProfileID = "default_user"
)
