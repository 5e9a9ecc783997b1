// internal/app/features/policies/handler.go
package policies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	policystore "github.com/dalemusser/enrollhub/internal/app/store/policies"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
	"github.com/dalemusser/enrollhub/internal/app/system/timeouts"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Policies *policystore.Store
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(policyStore *policystore.Store, logger *zap.Logger, errLog *apierrors.ErrorLogger, auditLog *auditlog.Logger) *Handler {
	return &Handler{Policies: policyStore, Log: logger, ErrLog: errLog, AuditLog: auditLog}
}

// HandleList handles GET /policies and returns the caller's own policies.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can view policies.")
	if !res.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "policies.list")
	defer cancel()

	list, err := h.Policies.ListByManager(ctx, res.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "policies: list failed", err, "")
		return
	}

	out := listResponse{Policies: make([]policyResponse, 0, len(list))}
	for _, p := range list {
		out.Policies = append(out.Policies, toResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /policies.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can create policies.")
	if !res.OK {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RenderBadRequest(w, r, "Request body must be JSON.")
		return
	}
	req.Number = strings.TrimSpace(req.Number)
	req.Name = strings.TrimSpace(req.Name)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.Number == "" || req.Name == "" || req.CompanyName == "" {
		apierrors.RenderValidationFailed(w, r, "Policy number, name, and company name are required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "policies.create")
	defer cancel()

	created, err := h.Policies.Create(ctx, models.Policy{
		Number:      req.Number,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		ManagerID:   res.UserID,
	})
	if err != nil {
		if errors.Is(err, policystore.ErrDuplicateNumber) {
			apierrors.RenderConflict(w, r, "A policy with that number already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "policies: create failed", err, "")
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: "policy_created",
		Success:   true,
		ActorID:   &res.UserID,
		PolicyID:  &created.ID,
		IP:        auditlog.ClientIP(r),
		Details:   map[string]string{"number": created.Number},
	})

	writeJSON(w, http.StatusCreated, toResponse(created))
}

// HandleGet handles GET /policies/{policyID}. Managers can only read their
// own policies.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can view policies.")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "policyID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Policy not found.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "policies.get")
	defer cancel()

	p, err := h.Policies.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "policies: get failed", err, "")
		return
	}
	if p == nil || p.ManagerID != res.UserID {
		apierrors.RenderNotFound(w, r, "Policy not found.")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*p))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
