// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (employee/member/policy
	// CRUD and bulk imports). Same values as Auth.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// ClientIP extracts the client IP from the request, honoring reverse-proxy
// headers before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.PolicyID != nil {
		fields = append(fields, zap.String("policy_id", event.PolicyID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	mode := l.config.Admin
	if event.Category == audit.CategoryAuth {
		mode = l.config.Auth
	}

	switch mode {
	case "off":
		return
	case "db":
		// db only
	case "log":
		l.logToZap(event)
		return
	default: // "all"
		l.logToZap(event)
	}

	if l.store != nil {
		if err := l.store.Insert(ctx, event); err != nil {
			l.zapLog.Error("audit event insert failed",
				zap.String("event_type", event.EventType),
				zap.Error(err))
		}
	}
}
