// internal/app/features/members/detail.go
package members

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/policy/memberpolicy"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	memberstore "github.com/dalemusser/enrollhub/internal/app/store/members"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberAccess resolves {memberID} and checks view access through the
// parent employee's ownership.
func (h *Handler) memberAccess(w http.ResponseWriter, r *http.Request) (*memberpolicy.MemberInfo, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Member not found.")
		return nil, false
	}

	info, canAccess, err := memberpolicy.CheckMemberAccess(r.Context(), h.DB, r, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members: access check failed", err, "")
		return nil, false
	}
	if info == nil {
		apierrors.RenderNotFound(w, r, "Member not found.")
		return nil, false
	}
	if !canAccess {
		apierrors.RenderForbidden(w, r, "You can only view your own dependents.")
		return nil, false
	}
	return info, true
}

// HandleGet handles GET /members/{memberID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	info, ok := h.memberAccess(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "members.get")
	defer cancel()

	m, err := h.Members.GetByID(ctx, info.ID)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			apierrors.RenderNotFound(w, r, "Member not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "members: get failed", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*m))
}

// HandlePatch handles PATCH /members/{memberID}. The relationship is fixed
// at creation; personal fields follow the usual patch convention.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}
	info, ok := h.memberAccess(w, r)
	if !ok {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "members.patch")
	defer cancel()

	if err := h.Members.ApplyUpdate(ctx, info.ID, upd); err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			apierrors.RenderNotFound(w, r, "Member not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "members: update failed", err, "")
		return
	}

	m, err := h.Members.GetByID(ctx, info.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members: reload after update failed", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*m))
}

func (h *Handler) buildUpdate(req patchRequest) (memberstore.Update, string, bool) {
	var upd memberstore.Update

	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		s := strings.TrimSpace(*p)
		return &s
	}
	req.FirstName, req.LastName = trim(req.FirstName), trim(req.LastName)
	req.DateOfBirth, req.Gender = trim(req.DateOfBirth), trim(req.Gender)

	if req.FirstName != nil && *req.FirstName == "" {
		return upd, "Field 'first_name' cannot be cleared.", false
	}
	if req.LastName != nil && *req.LastName == "" {
		return upd, "Field 'last_name' cannot be cleared.", false
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

	upd = memberstore.Update{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
	}
	return upd, "", true
}

// HandleDelete handles DELETE /members/{memberID}. Managers only, and the
// self member can never be deleted on its own — it goes only when its
// employee does.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can remove members.")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Member not found.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "members.delete")
	defer cancel()

	if err := h.Members.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, memberstore.ErrNotFound):
			apierrors.RenderNotFound(w, r, "Member not found.")
		case errors.Is(err, memberstore.ErrSelfUndeletable):
			apierrors.RenderValidationFailed(w, r, "The self member cannot be removed; delete the employee instead.")
		default:
			h.ErrLog.LogServerError(w, r, "members: delete failed", err, "")
		}
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: "member_deleted",
		Success:   true,
		ActorID:   &res.UserID,
		TargetID:  &id,
		IP:        auditlog.ClientIP(r),
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
