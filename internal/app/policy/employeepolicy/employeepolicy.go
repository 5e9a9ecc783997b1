// Package employeepolicy provides authorization policies for employee
// records.
//
// Authorization rules:
//   - Managers can view and manage every employee
//   - Members can only view the employee record linked to their own login
//   - An employee with no linked login is visible to managers only
package employeepolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/enrollhub/internal/app/system/authz"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EmployeeInfo contains the minimal employee data needed for authorization checks.
type EmployeeInfo struct {
	ID       primitive.ObjectID
	PolicyID primitive.ObjectID
	UserID   *primitive.ObjectID
}

// CanViewEmployee reports whether the current user can view the employee
// with the given owner link. Managers always can; members only when the
// employee is linked to their own login.
func CanViewEmployee(r *http.Request, employeeUserID *primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return authz.CanAccessResource(role, uid, employeeUserID)
}

// CanManageEmployee reports whether the current user can create, edit, or
// delete employee records. Only managers can.
func CanManageEmployee(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && role == models.RoleManager
}

// FetchEmployeeInfo retrieves the minimal employee information needed for
// authorization. Returns nil if the employee is not found.
func FetchEmployeeInfo(ctx context.Context, db *mongo.Database, employeeID primitive.ObjectID) (*EmployeeInfo, error) {
	var result struct {
		ID       primitive.ObjectID  `bson:"_id"`
		PolicyID primitive.ObjectID  `bson:"policy_id"`
		UserID   *primitive.ObjectID `bson:"user_id"`
	}

	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"policy_id": 1,
		"user_id":   1,
	})

	err := db.Collection("employees").FindOne(ctx, bson.M{"_id": employeeID}, proj).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &EmployeeInfo{
		ID:       result.ID,
		PolicyID: result.PolicyID,
		UserID:   result.UserID,
	}, nil
}

// CheckEmployeeAccess fetches employee info and checks whether the current
// user can view it.
//
// Returns:
//   - (info, true, nil) if the user can access the employee
//   - (info, false, nil) if the employee exists but the user cannot
//   - (nil, false, nil) if the employee was not found
//   - (nil, false, err) on database error
func CheckEmployeeAccess(ctx context.Context, db *mongo.Database, r *http.Request, employeeID primitive.ObjectID) (*EmployeeInfo, bool, error) {
	info, err := FetchEmployeeInfo(ctx, db, employeeID)
	if err != nil {
		return nil, false, err
	}
	if info == nil {
		return nil, false, nil
	}
	return info, CanViewEmployee(r, info.UserID), nil
}
