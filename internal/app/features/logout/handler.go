// internal/app/features/logout/handler.go
package logout

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

func NewHandler(logger *zap.Logger, auditLog *auditlog.Logger) *Handler {
	return &Handler{Log: logger, AuditLog: auditLog}
}

// HandleLogout handles POST /logout. Signing out an already-signed-out
// session is not an error.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var actorID *primitive.ObjectID
	if u, ok := auth.CurrentUser(r); ok {
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			actorID = &id
		}
	}

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session clear failed", zap.Error(err))
	}

	if actorID != nil {
		h.AuditLog.Log(r.Context(), audit.Event{
			Category:  audit.CategoryAuth,
			EventType: "logout",
			Success:   true,
			ActorID:   actorID,
			IP:        auditlog.ClientIP(r),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
