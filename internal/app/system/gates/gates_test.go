package gates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/enrollhub/internal/app/system/auth"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(role string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "Test User",
		Role: role,
	})
}

func TestRequireManager_NotSignedIn(t *testing.T) {
	rec := httptest.NewRecorder()
	res := gates.RequireManager(rec, httptest.NewRequest("GET", "/", nil), "no")

	if res.OK {
		t.Error("expected OK=false")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireManager_WrongRole(t *testing.T) {
	rec := httptest.NewRecorder()
	res := gates.RequireManager(rec, requestAs("member"), "Managers only.")

	if res.OK {
		t.Error("expected OK=false")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireManager_Manager(t *testing.T) {
	rec := httptest.NewRecorder()
	res := gates.RequireManager(rec, requestAs("manager"), "Managers only.")

	if !res.OK {
		t.Fatal("expected OK=true")
	}
	if res.Role != "manager" {
		t.Errorf("role: got %q, want %q", res.Role, "manager")
	}
	if res.UserID == primitive.NilObjectID {
		t.Error("expected a user ID")
	}
}

func TestRequireAnyRole(t *testing.T) {
	rec := httptest.NewRecorder()
	res := gates.RequireAnyRole(rec, requestAs("member"), "no", "manager", "member")
	if !res.OK {
		t.Error("member should pass a manager|member gate")
	}

	rec = httptest.NewRecorder()
	res = gates.RequireAnyRole(rec, requestAs("member"), "no", "manager")
	if res.OK {
		t.Error("member should fail a manager-only gate")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
