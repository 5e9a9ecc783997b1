// internal/app/features/members/handler.go
package members

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/policy/employeepolicy"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	memberstore "github.com/dalemusser/enrollhub/internal/app/store/members"
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

type Handler struct {
	DB        *mongo.Database
	Members   *memberstore.Store
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	DateOrder normalize.DateOrder
}

func NewHandler(db *mongo.Database, memberStore *memberstore.Store, logger *zap.Logger,
	errLog *apierrors.ErrorLogger, auditLog *auditlog.Logger, dateOrder normalize.DateOrder) *Handler {
	return &Handler{
		DB:        db,
		Members:   memberStore,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  auditLog,
		DateOrder: dateOrder,
	}
}

// employeeAccess resolves {employeeID} and checks the caller may act on
// that employee's members: managers always, members only on their own
// linked record.
func (h *Handler) employeeAccess(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "employeeID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Employee not found.")
		return primitive.NilObjectID, false
	}

	info, canAccess, err := employeepolicy.CheckEmployeeAccess(r.Context(), h.DB, r, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members: employee access check failed", err, "")
		return primitive.NilObjectID, false
	}
	if info == nil {
		apierrors.RenderNotFound(w, r, "Employee not found.")
		return primitive.NilObjectID, false
	}
	if !canAccess {
		apierrors.RenderForbidden(w, r, "You can only manage your own dependents.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleList handles GET /employees/{employeeID}/members.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	employeeID, ok := h.employeeAccess(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "members.list")
	defer cancel()

	list, err := h.Members.ListByEmployee(ctx, employeeID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members: list failed", err, "")
		return
	}

	out := listResponse{Members: make([]memberResponse, 0, len(list))}
	for _, m := range list {
		out.Members = append(out.Members, toResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /employees/{employeeID}/members. A second self
// or spouse under the same employee is a conflict.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	employeeID, ok := h.employeeAccess(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RenderBadRequest(w, r, "Request body must be JSON.")
		return
	}

	m := models.Member{
		EmployeeID:   employeeID,
		FirstName:    normalize.Name(req.FirstName),
		LastName:     normalize.Name(req.LastName),
		DateOfBirth:  strings.TrimSpace(req.DateOfBirth),
		Gender:       strings.TrimSpace(req.Gender),
		Relationship: strings.ToLower(strings.TrimSpace(req.Relationship)),
		CreatedBy:    &res.UserID,
	}
	if msg, ok := h.validateFields(&m); !ok {
		apierrors.RenderValidationFailed(w, r, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "members.create")
	defer cancel()

	created, err := h.Members.Create(ctx, m)
	if err != nil {
		switch {
		case errors.Is(err, memberstore.ErrDuplicateSelf):
			apierrors.RenderConflict(w, r, "This employee already has a self member.")
		case errors.Is(err, memberstore.ErrDuplicateSpouse):
			apierrors.RenderConflict(w, r, "This employee already has a spouse member.")
		default:
			h.ErrLog.LogServerError(w, r, "members: create failed", err, "")
		}
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: "member_created",
		Success:   true,
		ActorID:   &res.UserID,
		TargetID:  &created.ID,
		IP:        auditlog.ClientIP(r),
		Details:   map[string]string{"relationship": created.Relationship},
	})

	writeJSON(w, http.StatusCreated, toResponse(created))
}

// validateFields checks shapes and writes back normalized values.
func (h *Handler) validateFields(m *models.Member) (string, bool) {
	if m.FirstName == "" || m.LastName == "" {
		return "First name and last name are required.", false
	}
	if !models.IsValidRelationship(m.Relationship) {
		return "Invalid relationship '" + m.Relationship + "'. Use self, spouse, child, or parent.", false
	}
	if m.DateOfBirth != "" {
		iso, ok := normalize.Date(m.DateOfBirth, h.DateOrder)
		if !ok {
			return "Invalid date format '" + m.DateOfBirth + "'. Use YYYY-MM-DD", false
		}
		m.DateOfBirth = iso
	}
	if m.Gender != "" {
		g, ok := normalize.Gender(m.Gender)
		if !ok {
			return "Invalid gender '" + m.Gender + "'. Use Male, Female, or Other", false
		}
		m.Gender = g
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
