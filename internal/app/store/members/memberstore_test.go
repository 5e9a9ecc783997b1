// internal/app/store/members/memberstore_test.go
package memberstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/enrollhub/internal/app/system/indexes"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/dalemusser/enrollhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return New(db), testutil.NewFixtures(t, db)
}

func seedEmployee(t *testing.T, f *testutil.Fixtures) models.Employee {
	t.Helper()
	ctx := testutil.TestContext(t)
	mgr := f.CreateManagerUser(ctx, "Boss", "boss@test.com")
	p := f.CreatePolicy(ctx, "POL-1", "Plan A", mgr.ID)
	return f.CreateEmployee(ctx, p.ID, "EMP001", "John", "Doe", "john@test.com")
}

func TestCreateAndList(t *testing.T) {
	s, f := newTestStore(t)
	ctx := testutil.TestContext(t)
	e := seedEmployee(t, f)

	for _, m := range []models.Member{
		{EmployeeID: e.ID, FirstName: "John", LastName: "Doe", Relationship: models.RelationshipSelf},
		{EmployeeID: e.ID, FirstName: "Jane", LastName: "Doe", Relationship: models.RelationshipSpouse},
		{EmployeeID: e.ID, FirstName: "Jimmy", LastName: "Doe", Relationship: models.RelationshipChild},
	} {
		if _, err := s.Create(ctx, m); err != nil {
			t.Fatalf("Create %s: %v", m.Relationship, err)
		}
	}

	list, err := s.ListByEmployee(ctx, e.ID)
	if err != nil {
		t.Fatalf("ListByEmployee: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("members = %d, want 3", len(list))
	}
}

func TestCreateSecondSelfRejected(t *testing.T) {
	s, f := newTestStore(t)
	ctx := testutil.TestContext(t)
	e := seedEmployee(t, f)

	if _, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "John", LastName: "Doe", Relationship: models.RelationshipSelf,
	}); err != nil {
		t.Fatalf("first self: %v", err)
	}
	_, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "Johnny", LastName: "Doe", Relationship: models.RelationshipSelf,
	})
	if !errors.Is(err, ErrDuplicateSelf) {
		t.Fatalf("err = %v, want ErrDuplicateSelf", err)
	}
}

func TestCreateSecondSpouseRejected(t *testing.T) {
	s, f := newTestStore(t)
	ctx := testutil.TestContext(t)
	e := seedEmployee(t, f)

	if _, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "Jane", LastName: "Doe", Relationship: models.RelationshipSpouse,
	}); err != nil {
		t.Fatalf("first spouse: %v", err)
	}
	_, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "Janet", LastName: "Doe", Relationship: models.RelationshipSpouse,
	})
	if !errors.Is(err, ErrDuplicateSpouse) {
		t.Fatalf("err = %v, want ErrDuplicateSpouse", err)
	}

	// Multiple children are fine.
	for _, name := range []string{"Kid1", "Kid2"} {
		if _, err := s.Create(ctx, models.Member{
			EmployeeID: e.ID, FirstName: name, LastName: "Doe", Relationship: models.RelationshipChild,
		}); err != nil {
			t.Fatalf("child %s: %v", name, err)
		}
	}
}

func TestDeleteSelfRejected(t *testing.T) {
	s, f := newTestStore(t)
	ctx := testutil.TestContext(t)
	e := seedEmployee(t, f)

	self, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "John", LastName: "Doe", Relationship: models.RelationshipSelf,
	})
	if err != nil {
		t.Fatalf("create self: %v", err)
	}

	if err := s.Delete(ctx, self.ID); !errors.Is(err, ErrSelfUndeletable) {
		t.Fatalf("err = %v, want ErrSelfUndeletable", err)
	}

	// Still there.
	if _, err := s.GetByID(ctx, self.ID); err != nil {
		t.Fatalf("self member gone after rejected delete: %v", err)
	}
}

func TestDeleteDependent(t *testing.T) {
	s, f := newTestStore(t)
	ctx := testutil.TestContext(t)
	e := seedEmployee(t, f)

	child, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "Jimmy", LastName: "Doe", Relationship: models.RelationshipChild,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := s.Delete(ctx, child.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, child.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, child.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestApplyUpdate(t *testing.T) {
	s, f := newTestStore(t)
	ctx := testutil.TestContext(t)
	e := seedEmployee(t, f)

	m, err := s.Create(ctx, models.Member{
		EmployeeID: e.ID, FirstName: "Jane", LastName: "Doe",
		DateOfBirth: "1992-03-04", Relationship: models.RelationshipSpouse,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Janet"
	empty := ""
	if err := s.ApplyUpdate(ctx, m.ID, Update{FirstName: &newName, DateOfBirth: &empty}); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	got, err := s.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FirstName != "Janet" {
		t.Errorf("FirstName = %q, want Janet", got.FirstName)
	}
	if got.DateOfBirth != "" {
		t.Errorf("DateOfBirth = %q, want cleared", got.DateOfBirth)
	}
	if got.LastName != "Doe" || got.Relationship != models.RelationshipSpouse {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestApplyUpdateNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := testutil.TestContext(t)

	name := "X"
	err := s.ApplyUpdate(ctx, primitive.NewObjectID(), Update{FirstName: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
