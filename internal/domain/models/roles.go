// internal/domain/models/roles.go
package models

// Roles. Managers administer policies, employees, and dependents; members
// are employees who sign in to view and manage their own dependents.
const (
	RoleManager = "manager"
	RoleMember  = "member"
)

// User status values.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidRole reports whether role is one of the recognized roles.
func IsValidRole(role string) bool {
	return role == RoleManager || role == RoleMember
}

// IsValidStatus reports whether status is one of the recognized statuses.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusDisabled
}
