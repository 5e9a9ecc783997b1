// internal/testutil/http.go
package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/enrollhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	EmployeeID string
}

// ManagerUser returns a TestUser with the manager role.
func ManagerUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Manager",
		Email: "manager@test.com",
		Role:  "manager",
	}
}

// MemberUser returns a TestUser with the member role, linked to the given
// employee record.
func MemberUser(employeeID primitive.ObjectID) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Member",
		Email:      "member@test.com",
		Role:       "member",
		EmployeeID: employeeID.Hex(),
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
