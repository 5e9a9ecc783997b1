// internal/app/features/employees/handler.go
package employees

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	employeestore "github.com/dalemusser/enrollhub/internal/app/store/employees"
	policystore "github.com/dalemusser/enrollhub/internal/app/store/policies"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/app/system/timeouts"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Handler struct {
	DB        *mongo.Database
	Employees *employeestore.Store
	Policies  *policystore.Store
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	DateOrder normalize.DateOrder
}

func NewHandler(db *mongo.Database, employeeStore *employeestore.Store, policyStore *policystore.Store,
	logger *zap.Logger, errLog *apierrors.ErrorLogger, auditLog *auditlog.Logger, dateOrder normalize.DateOrder) *Handler {
	return &Handler{
		DB:        db,
		Employees: employeeStore,
		Policies:  policyStore,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  auditLog,
		DateOrder: dateOrder,
	}
}

// ownedPolicy resolves {policyID} and confirms it belongs to the manager.
// Returns zero ID with a rendered 404 when it doesn't.
func (h *Handler) ownedPolicy(ctx context.Context, w http.ResponseWriter, r *http.Request, managerID primitive.ObjectID) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "policyID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Policy not found.")
		return primitive.NilObjectID, false
	}
	p, err := h.Policies.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "employees: policy lookup failed", err, "")
		return primitive.NilObjectID, false
	}
	if p == nil || p.ManagerID != managerID {
		apierrors.RenderNotFound(w, r, "Policy not found.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleList handles GET /policies/{policyID}/employees with cursor paging
// on the employee code (?after=EMP010&limit=50).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can list employees.")
	if !res.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "employees.list")
	defer cancel()

	policyID, ok := h.ownedPolicy(ctx, w, r, res.UserID)
	if !ok {
		return
	}

	limit := int64(defaultPageSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			apierrors.RenderBadRequest(w, r, "limit must be a positive integer.")
			return
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		limit = n
	}
	after := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("after")))

	list, err := h.Employees.ListByPolicy(ctx, policyID, after, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "employees: list failed", err, "")
		return
	}

	out := listResponse{Employees: make([]employeeResponse, 0, len(list))}
	for _, e := range list {
		out.Employees = append(out.Employees, toResponse(e))
	}
	if int64(len(list)) == limit {
		out.NextAfter = list[len(list)-1].Code
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /policies/{policyID}/employees. The employee
// and its self member insert together; a duplicate code inserts nothing.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can add employees.")
	if !res.OK {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RenderBadRequest(w, r, "Request body must be JSON.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "employees.create")
	defer cancel()

	policyID, ok := h.ownedPolicy(ctx, w, r, res.UserID)
	if !ok {
		return
	}

	e := models.Employee{
		PolicyID:    policyID,
		Code:        strings.TrimSpace(req.Code),
		FirstName:   normalize.Name(req.FirstName),
		LastName:    normalize.Name(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		DateOfBirth: strings.TrimSpace(req.DateOfBirth),
		Gender:      strings.TrimSpace(req.Gender),
		Department:  strings.TrimSpace(req.Department),
		Designation: strings.TrimSpace(req.Designation),
	}
	if msg, ok := h.validateFields(&e); !ok {
		apierrors.RenderValidationFailed(w, r, msg)
		return
	}

	created, err := h.Employees.CreateWithSelf(ctx, e, &res.UserID)
	if err != nil {
		if errors.Is(err, employeestore.ErrDuplicateCode) {
			apierrors.RenderConflict(w, r, "Employee code '"+e.Code+"' already exists")
			return
		}
		h.ErrLog.LogServerError(w, r, "employees: create failed", err, "")
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: "employee_created",
		Success:   true,
		ActorID:   &res.UserID,
		TargetID:  &created.ID,
		PolicyID:  &policyID,
		IP:        auditlog.ClientIP(r),
		Details:   map[string]string{"code": created.Code},
	})

	writeJSON(w, http.StatusCreated, toResponse(created))
}

// validateFields checks shapes of the optional-but-typed fields and writes
// back normalized values (canonical gender casing, ISO dates).
func (h *Handler) validateFields(e *models.Employee) (string, bool) {
	if e.Code == "" || e.FirstName == "" || e.LastName == "" || e.Email == "" {
		return "Code, first name, last name, and email are required.", false
	}
	if !normalize.ValidEmail(e.Email) {
		return "Invalid email format '" + e.Email + "'", false
	}
	e.Email = normalize.Email(e.Email)
	if e.DateOfBirth != "" {
		iso, ok := normalize.Date(e.DateOfBirth, h.DateOrder)
		if !ok {
			return "Invalid date format '" + e.DateOfBirth + "'. Use YYYY-MM-DD", false
		}
		e.DateOfBirth = iso
	}
	if e.Gender != "" {
		g, ok := normalize.Gender(e.Gender)
		if !ok {
			return "Invalid gender '" + e.Gender + "'. Use Male, Female, or Other", false
		}
		e.Gender = g
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
