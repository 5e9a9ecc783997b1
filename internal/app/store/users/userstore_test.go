// internal/app/store/users/userstore_test.go
package userstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/enrollhub/internal/app/system/indexes"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/dalemusser/enrollhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return New(db)
}

func TestCreateAndGetByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := testutil.TestContext(t)

	u, err := s.Create(ctx, models.User{
		FullName:     "  Pat Riley  ",
		Email:        "Pat.Riley@Example.COM",
		PasswordHash: "x",
		Role:         models.RoleManager,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "pat.riley@example.com" {
		t.Errorf("Email = %q, not normalized", u.Email)
	}
	if u.Status != models.StatusActive {
		t.Errorf("Status = %q, want default active", u.Status)
	}

	got, err := s.GetByEmail(ctx, "PAT.RILEY@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail = %+v, want id %s", got, u.ID.Hex())
	}
}

func TestGetByEmailMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := testutil.TestContext(t)

	got, err := s.GetByEmail(ctx, "nobody@test.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got != nil {
		t.Errorf("GetByEmail = %+v, want nil", got)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := testutil.TestContext(t)

	first := models.User{FullName: "A", Email: "dup@test.com", PasswordHash: "x", Role: models.RoleManager}
	if _, err := s.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create(ctx, models.User{FullName: "B", Email: "DUP@test.com", PasswordHash: "x", Role: models.RoleMember})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestCreateRejectsBadRole(t *testing.T) {
	s := newTestStore(t)
	ctx := testutil.TestContext(t)

	if _, err := s.Create(ctx, models.User{FullName: "A", Email: "a@test.com", Role: "superuser"}); err == nil {
		t.Fatal("Create accepted an unknown role")
	}
}

func TestLinkEmployee(t *testing.T) {
	s := newTestStore(t)
	ctx := testutil.TestContext(t)

	u, err := s.Create(ctx, models.User{
		FullName: "Worker", Email: "worker@test.com", PasswordHash: "x", Role: models.RoleMember,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	empID := primitive.NewObjectID()
	if err := s.LinkEmployee(ctx, u.ID, empID); err != nil {
		t.Fatalf("LinkEmployee: %v", err)
	}

	got, err := s.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.EmployeeID == nil || *got.EmployeeID != empID {
		t.Errorf("EmployeeID = %v, want %s", got.EmployeeID, empID.Hex())
	}

	// Managers never carry an employee link; the update must not match them.
	mgr, err := s.Create(ctx, models.User{
		FullName: "Boss", Email: "boss@test.com", PasswordHash: "x", Role: models.RoleManager,
	})
	if err != nil {
		t.Fatalf("Create manager: %v", err)
	}
	if err := s.LinkEmployee(ctx, mgr.ID, empID); err != nil {
		t.Fatalf("LinkEmployee manager: %v", err)
	}
	gotMgr, err := s.GetByID(ctx, mgr.ID)
	if err != nil {
		t.Fatalf("GetByID manager: %v", err)
	}
	if gotMgr.EmployeeID != nil {
		t.Errorf("manager EmployeeID = %v, want nil", gotMgr.EmployeeID)
	}
}
