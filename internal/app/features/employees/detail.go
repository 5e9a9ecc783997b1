// internal/app/features/employees/detail.go
package employees

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/policy/employeepolicy"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	employeestore "github.com/dalemusser/enrollhub/internal/app/store/employees"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleGet handles GET /employees/{employeeID}. Managers see any record;
// a member sees it only when their login is linked to it.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "employeeID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Employee not found.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "employees.get")
	defer cancel()

	info, canAccess, err := employeepolicy.CheckEmployeeAccess(ctx, h.DB, r, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "employees: access check failed", err, "")
		return
	}
	if info == nil {
		apierrors.RenderNotFound(w, r, "Employee not found.")
		return
	}
	if !canAccess {
		apierrors.RenderForbidden(w, r, "You can only view your own record.")
		return
	}

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeestore.ErrNotFound) {
			apierrors.RenderNotFound(w, r, "Employee not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "employees: get failed", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*e))
}

// HandlePatch handles PATCH /employees/{employeeID}. Omitted fields stay
// untouched; an explicit empty string clears an optional field. Code,
// first name, last name, and email can be replaced but never cleared.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can edit employees.")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "employeeID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Employee not found.")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RenderBadRequest(w, r, "Request body must be JSON.")
		return
	}
	upd, msg, ok := h.buildUpdate(req)
	if !ok {
		apierrors.RenderValidationFailed(w, r, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "employees.patch")
	defer cancel()

	if err := h.Employees.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, employeestore.ErrNotFound):
			apierrors.RenderNotFound(w, r, "Employee not found.")
		case errors.Is(err, employeestore.ErrDuplicateCode):
			apierrors.RenderConflict(w, r, "Employee code '"+deref(upd.Code)+"' already exists")
		default:
			h.ErrLog.LogServerError(w, r, "employees: update failed", err, "")
		}
		return
	}

	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "employees: reload after update failed", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*e))
}

// buildUpdate validates a patch and converts it to the store's update
// shape. Trimming happens here so "  " counts as clearing.
func (h *Handler) buildUpdate(req patchRequest) (employeestore.Update, string, bool) {
	var upd employeestore.Update

	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		s := strings.TrimSpace(*p)
		return &s
	}
	req.Code, req.FirstName, req.LastName, req.Email = trim(req.Code), trim(req.FirstName), trim(req.LastName), trim(req.Email)
	req.Phone, req.DateOfBirth, req.Gender = trim(req.Phone), trim(req.DateOfBirth), trim(req.Gender)
	req.Department, req.Designation = trim(req.Department), trim(req.Designation)

	for name, p := range map[string]*string{
		"code": req.Code, "first_name": req.FirstName, "last_name": req.LastName, "email": req.Email,
	} {
		if p != nil && *p == "" {
			return upd, "Field '" + name + "' cannot be cleared.", false
		}
	}
	if req.Email != nil {
		if !normalize.ValidEmail(*req.Email) {
			return upd, "Invalid email format '" + *req.Email + "'", false
		}
		e := normalize.Email(*req.Email)
		req.Email = &e
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		iso, ok := normalize.Date(*req.DateOfBirth, h.DateOrder)
		if !ok {
			return upd, "Invalid date format '" + *req.DateOfBirth + "'. Use YYYY-MM-DD", false
		}
		req.DateOfBirth = &iso
	}
	if req.Gender != nil && *req.Gender != "" {
		g, ok := normalize.Gender(*req.Gender)
		if !ok {
			return upd, "Invalid gender '" + *req.Gender + "'. Use Male, Female, or Other", false
		}
		req.Gender = &g
	}

	upd = employeestore.Update{
		Code:        req.Code,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Department:  req.Department,
		Designation: req.Designation,
	}
	return upd, "", true
}

// HandleDelete handles DELETE /employees/{employeeID}. Every member under
// the employee, the self member included, goes with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can delete employees.")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "employeeID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Employee not found.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "employees.delete")
	defer cancel()

	if err := h.Employees.Delete(ctx, id); err != nil {
		if errors.Is(err, employeestore.ErrNotFound) {
			apierrors.RenderNotFound(w, r, "Employee not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "employees: delete failed", err, "")
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: "employee_deleted",
		Success:   true,
		ActorID:   &res.UserID,
		TargetID:  &id,
		IP:        auditlog.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
