// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the appropriate
// error response when checks fail.
//
// EnrollHub uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need role checks WITHOUT route-level middleware,
//     or need different role requirements than the route group. Gates write
//     error responses and return user context (role, name, userID).
//
//  3. Policy Layer (internal/app/policy/*)
//     Used for resource-specific authorization requiring database lookups.
//     Policies return (bool, error) - callers handle error rendering.
//
// Don't use gates in handlers that are behind role-specific middleware;
// use authz.UserCtx(r) there to get user context without re-checking role.
package gates

import (
	"net/http"

	uierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/system/authz"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it writes an unauthorized error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireManager ensures the user is authenticated and has the manager role.
// If not authenticated, writes an unauthorized error. If authenticated but
// not a manager, writes a forbidden error with the provided message.
func RequireManager(w http.ResponseWriter, r *http.Request, forbiddenMsg string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return Result{OK: false}
	}
	if role != models.RoleManager {
		uierrors.RenderForbidden(w, r, forbiddenMsg)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireAnyRole ensures the user is authenticated and has one of the
// specified roles.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, forbiddenMsg string, allowedRoles ...string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return Result{OK: false}
	}

	for _, allowed := range allowedRoles {
		if role == allowed {
			return Result{Role: role, Name: name, UserID: uid, OK: true}
		}
	}

	uierrors.RenderForbidden(w, r, forbiddenMsg)
	return Result{OK: false}
}
