// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/enrollhub/internal/app/system/auth"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false. This ensures callers can
// trust that ok=true means a valid, authenticated user with a valid
// ObjectID. The role is normalized to lowercase for consistent comparison.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed for security.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsManager reports whether the current request's user is a manager.
func IsManager(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleManager
}

// IsMember reports whether the current request's user is a member
// (an employee's login identity).
func IsMember(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleMember
}

// UserEmployeeID returns the employee record linked to the current user.
// Returns NilObjectID if the user is not signed in, has no linked employee,
// or the stored ID is malformed.
func UserEmployeeID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.EmployeeID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.EmployeeID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// CanAccessResource decides read/write eligibility for an owned resource.
// Managers always pass. Everyone else passes only when the resource's owner
// link is present and matches the caller; a resource with no owner link is
// inaccessible to non-managers.
func CanAccessResource(role string, callerID primitive.ObjectID, ownerID *primitive.ObjectID) bool {
	if strings.ToLower(role) == models.RoleManager {
		return true
	}
	return ownerID != nil && *ownerID == callerID
}
