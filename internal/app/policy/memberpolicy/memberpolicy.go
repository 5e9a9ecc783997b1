// Package memberpolicy provides authorization policies for member
// (dependent) management.
//
// Authorization rules:
//   - Managers can view and manage all members
//   - A member-role user can view and edit dependents of their own
//     employee record (ownership via the employee's user link)
//   - Deleting members is manager-only; the self member is never
//     deletable directly (enforced in the store, not here)
package memberpolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/enrollhub/internal/app/policy/employeepolicy"
	"github.com/dalemusser/enrollhub/internal/app/system/authz"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemberInfo contains the minimal member data needed for authorization
// checks: the owning employee and that employee's login link.
type MemberInfo struct {
	ID           primitive.ObjectID
	EmployeeID   primitive.ObjectID
	Relationship string
	OwnerUserID  *primitive.ObjectID
}

// CanViewMember reports whether the current user can view a member whose
// owning employee is linked to ownerUserID.
func CanViewMember(r *http.Request, ownerUserID *primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return authz.CanAccessResource(role, uid, ownerUserID)
}

// CanEditMember has the same ownership rule as CanViewMember: managers, or
// the owner of the parent employee record.
func CanEditMember(r *http.Request, ownerUserID *primitive.ObjectID) bool {
	return CanViewMember(r, ownerUserID)
}

// CanDeleteMember reports whether the current user can delete members.
// Only managers can; ownership does not grant deletion.
func CanDeleteMember(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && role == models.RoleManager
}

// FetchMemberInfo retrieves the minimal member information needed for
// authorization, resolving the owning employee's user link in a second
// lookup. Returns nil if the member is not found.
func FetchMemberInfo(ctx context.Context, db *mongo.Database, memberID primitive.ObjectID) (*MemberInfo, error) {
	var m struct {
		ID           primitive.ObjectID `bson:"_id"`
		EmployeeID   primitive.ObjectID `bson:"employee_id"`
		Relationship string             `bson:"relationship"`
	}

	proj := options.FindOne().SetProjection(bson.M{
		"_id":          1,
		"employee_id":  1,
		"relationship": 1,
	})

	err := db.Collection("members").FindOne(ctx, bson.M{"_id": memberID}, proj).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	emp, err := employeepolicy.FetchEmployeeInfo(ctx, db, m.EmployeeID)
	if err != nil {
		return nil, err
	}

	info := &MemberInfo{
		ID:           m.ID,
		EmployeeID:   m.EmployeeID,
		Relationship: m.Relationship,
	}
	if emp != nil {
		info.OwnerUserID = emp.UserID
	}
	return info, nil
}

// CheckMemberAccess fetches member info and checks if the current user can
// view it. It combines FetchMemberInfo and CanViewMember.
//
// Returns:
//   - (info, true, nil) if the user can access the member
//   - (info, false, nil) if the member exists but the user cannot
//   - (nil, false, nil) if the member was not found
//   - (nil, false, err) on database error
func CheckMemberAccess(ctx context.Context, db *mongo.Database, r *http.Request, memberID primitive.ObjectID) (*MemberInfo, bool, error) {
	info, err := FetchMemberInfo(ctx, db, memberID)
	if err != nil {
		return nil, false, err
	}
	if info == nil {
		return nil, false, nil
	}
	return info, CanViewMember(r, info.OwnerUserID), nil
}
