// internal/app/features/uploadcsv/handler.go
package uploadcsv

import (
	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	employeestore "github.com/dalemusser/enrollhub/internal/app/store/employees"
	policystore "github.com/dalemusser/enrollhub/internal/app/store/policies"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"go.uber.org/zap"
)

// Defaults for the upload limits; Config zero values fall back to these.
const (
	defaultMaxRows     = 5000
	defaultMaxBodySize = 10 << 20 // 10 MiB
)

// Config carries the tunable limits for bulk import.
type Config struct {
	DateOrder   normalize.DateOrder
	MaxRows     int
	MaxBodySize int64
}

type Handler struct {
	Employees *employeestore.Store
	Policies  *policystore.Store
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	Cfg       Config
}

func NewHandler(employeeStore *employeestore.Store, policyStore *policystore.Store,
	logger *zap.Logger, errLog *apierrors.ErrorLogger, auditLog *auditlog.Logger, cfg Config) *Handler {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	return &Handler{
		Employees: employeeStore,
		Policies:  policyStore,
		Log:       logger,
		ErrLog:    errLog,
		AuditLog:  auditLog,
		Cfg:       cfg,
	}
}
