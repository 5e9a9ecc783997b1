// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/enrollhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateManagerUser creates a test user with the manager role.
func (f *Fixtures) CreateManagerUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.RoleManager, nil)
}

// CreateMemberUser creates a test user with the member role, linked to the
// given employee record.
func (f *Fixtures) CreateMemberUser(ctx context.Context, fullName, email string, employeeID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, models.RoleMember, &employeeID)
}

func (f *Fixtures) createUser(ctx context.Context, fullName, email, role string, employeeID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		Email:      strings.ToLower(email),
		Role:       role,
		Status:     models.StatusActive,
		EmployeeID: employeeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreatePolicy creates a test policy owned by the given manager.
func (f *Fixtures) CreatePolicy(ctx context.Context, number, name string, managerID primitive.ObjectID) models.Policy {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Policy{
		ID:          primitive.NewObjectID(),
		Number:      number,
		Name:        name,
		CompanyName: "Test Company",
		ManagerID:   managerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("policies").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test policy: %v", err)
	}
	return p
}

// CreateEmployee creates a test employee under the given policy, without a
// self member. Use the employee store's CreateWithSelf in tests that need
// the paired insert.
func (f *Fixtures) CreateEmployee(ctx context.Context, policyID primitive.ObjectID, code, firstName, lastName, email string) models.Employee {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Employee{
		ID:        primitive.NewObjectID(),
		PolicyID:  policyID,
		Code:      code,
		CodeCI:    strings.ToLower(code),
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("employees").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test employee: %v", err)
	}
	return e
}

// CreateMemberRow creates a test member under the given employee.
func (f *Fixtures) CreateMemberRow(ctx context.Context, employeeID primitive.ObjectID, firstName, lastName, relationship string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:           primitive.NewObjectID(),
		EmployeeID:   employeeID,
		FirstName:    firstName,
		LastName:     lastName,
		Relationship: relationship,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}
