// internal/app/features/uploadcsv/handler_test.go
package uploadcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/features/uploadcsv"
	"github.com/dalemusser/enrollhub/internal/app/features/uploadcsv/csvimport"
	auditstore "github.com/dalemusser/enrollhub/internal/app/store/audit"
	employeestore "github.com/dalemusser/enrollhub/internal/app/store/employees"
	policystore "github.com/dalemusser/enrollhub/internal/app/store/policies"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/indexes"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/dalemusser/enrollhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type uploadEnv struct {
	handler  *uploadcsv.Handler
	db       *mongo.Database
	fixtures *testutil.Fixtures
	manager  models.User
	policy   models.Policy
}

func setupUpload(t *testing.T) *uploadEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	f := testutil.NewFixtures(t, db)
	mgr := f.CreateManagerUser(ctx, "Boss", "boss@test.com")
	pol := f.CreatePolicy(ctx, "POL-1", "Plan A", mgr.ID)

	logger := zap.NewNop()
	h := uploadcsv.NewHandler(
		employeestore.New(db, logger),
		policystore.New(db),
		logger,
		errorsfeature.NewErrorLogger(logger),
		auditlog.New(auditstore.New(db), logger, auditlog.Config{Auth: "off", Admin: "db"}),
		uploadcsv.Config{},
	)
	return &uploadEnv{handler: h, db: db, fixtures: f, manager: mgr, policy: pol}
}

func multipartCSV(t *testing.T, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "employees.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func (env *uploadEnv) upload(t *testing.T, actorID, policyID, csv string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartCSV(t, csv)
	req := httptest.NewRequest("POST", "/policies/"+policyID+"/employees/upload_csv", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithUser(req, testutil.TestUser{
		ID: actorID, Name: "Boss", Email: "boss@test.com", Role: "manager",
	})
	req = testutil.WithChiURLParam(req, "policyID", policyID)
	rec := httptest.NewRecorder()
	env.handler.HandleUpload(rec, req)
	return rec
}

const goodHeader = "Employee Code,First Name,Last Name,Email,Phone,Date of Birth,Gender,Department,Designation\n"

func TestUploadAllRowsValid(t *testing.T) {
	env := setupUpload(t)
	ctx := testutil.TestContext(t)

	rec := env.upload(t, env.manager.ID.Hex(), env.policy.ID.Hex(), goodHeader+
		"EMP001,John,Doe,john@x.com,555-0101,1990-05-15,Male,Engineering,Engineer\n"+
		"EMP002,Jane,Doe,jane@x.com,,15/05/1991,Female,,\n")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result csvimport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if !result.Success || result.TotalRows != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("result = %+v", result)
	}
	if result.BatchID == "" {
		t.Error("batch_id missing")
	}

	n, err := env.db.Collection("employees").CountDocuments(ctx, bson.M{"policy_id": env.policy.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("employees = %d, want 2", n)
	}
	selves, err := env.db.Collection("members").CountDocuments(ctx, bson.M{"relationship": "self"})
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if selves != 2 {
		t.Errorf("self members = %d, want 2", selves)
	}

	var imported models.Employee
	if err := env.db.Collection("employees").FindOne(ctx, bson.M{"code": "EMP002"}).Decode(&imported); err != nil {
		t.Fatalf("load EMP002: %v", err)
	}
	if imported.DateOfBirth != "1991-05-15" {
		t.Errorf("date = %q, want 1991-05-15", imported.DateOfBirth)
	}
}

func TestUploadMixedRows(t *testing.T) {
	env := setupUpload(t)
	ctx := testutil.TestContext(t)

	rec := env.upload(t, env.manager.ID.Hex(), env.policy.ID.Hex(), goodHeader+
		"EMP001,John,Doe,john@x.com,,1990-01-01,Male,,\n"+
		"EMP002,Jane,Doe,not-an-email,,1991-01-01,Female,,\n")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result csvimport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if result.Success || result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 3 {
		t.Fatalf("errors = %+v", result.Errors)
	}
	want := "Row 3: Invalid email format 'not-an-email'"
	if result.Errors[0].Messages[0] != want {
		t.Errorf("message = %q, want %q", result.Errors[0].Messages[0], want)
	}

	// The valid row still inserted.
	n, _ := env.db.Collection("employees").CountDocuments(ctx, bson.M{"code": "EMP001"})
	if n != 1 {
		t.Errorf("EMP001 count = %d, want 1", n)
	}
	n, _ = env.db.Collection("employees").CountDocuments(ctx, bson.M{"code": "EMP002"})
	if n != 0 {
		t.Errorf("EMP002 count = %d, want 0", n)
	}
}

func TestUploadDuplicateCodes(t *testing.T) {
	env := setupUpload(t)
	ctx := testutil.TestContext(t)
	env.fixtures.CreateEmployee(ctx, env.policy.ID, "EMP009", "Old", "Hand", "old@x.com")

	rec := env.upload(t, env.manager.ID.Hex(), env.policy.ID.Hex(), goodHeader+
		"EMP009,John,Doe,john@x.com,,1990-01-01,Male,,\n"+
		"emp009,Jane,Doe,jane@x.com,,1991-01-01,Female,,\n")

	var result csvimport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if result.SuccessCount != 0 || result.FailedCount != 2 {
		t.Fatalf("result = %+v", result)
	}
	for _, re := range result.Errors {
		if len(re.Messages) != 1 || !strings.Contains(re.Messages[0], "already exists") {
			t.Errorf("row %d messages = %v", re.Row, re.Messages)
		}
	}
}

func TestUploadUnrecognizedHeaderReportsRows(t *testing.T) {
	env := setupUpload(t)

	rec := env.upload(t, env.manager.ID.Hex(), env.policy.ID.Hex(),
		"Foo,Bar,Baz\n1,2,3\n4,5,6\n")

	// A header that maps to nothing is not a request error; every row
	// lands in the report with missing-field messages.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result csvimport.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if result.Success || result.SuccessCount != 0 || result.FailedCount != 2 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %+v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Messages[0], "Missing required field") {
		t.Errorf("message = %q", result.Errors[0].Messages[0])
	}
}

func TestUploadEmptyFile(t *testing.T) {
	env := setupUpload(t)

	rec := env.upload(t, env.manager.ID.Hex(), env.policy.ID.Hex(), goodHeader)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if body.Error != "empty_payload" {
		t.Errorf("error kind = %q, want empty_payload", body.Error)
	}
}

func TestUploadForeignPolicyHidden(t *testing.T) {
	env := setupUpload(t)
	ctx := testutil.TestContext(t)
	other := env.fixtures.CreateManagerUser(ctx, "Other", "other@test.com")
	foreign := env.fixtures.CreatePolicy(ctx, "POL-2", "Plan B", other.ID)

	rec := env.upload(t, env.manager.ID.Hex(), foreign.ID.Hex(), goodHeader+
		"EMP001,John,Doe,john@x.com,,1990-01-01,Male,,\n")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUploadRequiresManager(t *testing.T) {
	env := setupUpload(t)

	body, contentType := multipartCSV(t, goodHeader+"EMP001,John,Doe,john@x.com,,1990-01-01,Male,,\n")
	req := httptest.NewRequest("POST", "/policies/"+env.policy.ID.Hex()+"/employees/upload_csv", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithUser(req, testutil.MemberUser(primitive.NewObjectID()))
	req = testutil.WithChiURLParam(req, "policyID", env.policy.ID.Hex())
	rec := httptest.NewRecorder()
	env.handler.HandleUpload(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
