// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	userstore "github.com/dalemusser/enrollhub/internal/app/store/users"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/auth"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/app/system/timeouts"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users    *userstore.Store
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(userStore *userstore.Store, logger *zap.Logger, errLog *apierrors.ErrorLogger, auditLog *auditlog.Logger) *Handler {
	return &Handler{Users: userStore, Log: logger, ErrLog: errLog, AuditLog: auditLog}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// HandleLogin handles POST /login. Credential failures always return the
// same message, whether the email is unknown or the password is wrong.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RenderBadRequest(w, r, "Request body must be JSON with email and password.")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		apierrors.RenderBadRequest(w, r, "Email and password are required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: user lookup failed", err, "")
		return
	}
	if u == nil {
		h.auditFailure(r, email, "unknown email")
		apierrors.RenderUnauthorized(w, r)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			h.Log.Warn("login: password compare failed", zap.Error(err))
		}
		h.auditFailure(r, email, "bad password")
		apierrors.RenderUnauthorized(w, r)
		return
	}
	if !strings.EqualFold(u.Status, models.StatusActive) {
		h.auditFailure(r, email, "account disabled")
		apierrors.RenderForbidden(w, r, "This account is disabled.")
		return
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.EmployeeID != nil {
		su.EmployeeID = u.EmployeeID.Hex()
	}
	if err := auth.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "login: session save failed", err, "")
		return
	}

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: "login_success",
		Success:   true,
		ActorID:   &u.ID,
		IP:        auditlog.ClientIP(r),
		Details:   map[string]string{"email": u.Email},
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(loginResponse{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	})
}

func (h *Handler) auditFailure(r *http.Request, email, reason string) {
	h.AuditLog.Log(r.Context(), audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     "login_failure",
		Success:       false,
		IP:            auditlog.ClientIP(r),
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	})
}
