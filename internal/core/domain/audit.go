package domain

import "time"

// AuditAction names a registry operation recorded in the audit trail.
type AuditAction string

const (
	ActionUserCreated          AuditAction = "user.created"
	ActionUserUpdated          AuditAction = "user.updated"
	ActionUserDeleted          AuditAction = "user.deleted"
	ActionAuthenticated        AuditAction = "user.authenticated"
	ActionAuthenticationFailed AuditAction = "user.authentication_failed"
)

// AuditEvent records a single registry operation. It never carries credentials.
type AuditEvent struct {
	Action   AuditAction
	UserID   int64 // zero when the user is unknown
	Username string
	Outcome  string
	At       time.Time
}
