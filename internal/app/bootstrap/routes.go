// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	employeesfeature "github.com/dalemusser/enrollhub/internal/app/features/employees"
	errorsfeature "github.com/dalemusser/enrollhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/enrollhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/enrollhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/enrollhub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/enrollhub/internal/app/features/members"
	policiesfeature "github.com/dalemusser/enrollhub/internal/app/features/policies"
	uploadcsvfeature "github.com/dalemusser/enrollhub/internal/app/features/uploadcsv"
	auditstore "github.com/dalemusser/enrollhub/internal/app/store/audit"
	employeestore "github.com/dalemusser/enrollhub/internal/app/store/employees"
	memberstore "github.com/dalemusser/enrollhub/internal/app/store/members"
	policystore "github.com/dalemusser/enrollhub/internal/app/store/policies"
	userstore "github.com/dalemusser/enrollhub/internal/app/store/users"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/auth"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	policies := policystore.New(db)
	employees := employeestore.New(db, logger)
	members := memberstore.New(db)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	dateOrder := normalize.ParseDateOrder(appCfg.CSVDateOrder)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	loginHandler := loginfeature.NewHandler(users, logger, errLog, auditLog)
	logoutHandler := logoutfeature.NewHandler(logger, auditLog)
	policyHandler := policiesfeature.NewHandler(policies, logger, errLog, auditLog)
	employeeHandler := employeesfeature.NewHandler(db, employees, policies, logger, errLog, auditLog, dateOrder)
	memberHandler := membersfeature.NewHandler(db, members, logger, errLog, auditLog, dateOrder)
	uploadHandler := uploadcsvfeature.NewHandler(employees, policies, logger, errLog, auditLog, uploadcsvfeature.Config{
		DateOrder:   dateOrder,
		MaxRows:     appCfg.CSVMaxRows,
		MaxBodySize: appCfg.CSVMaxBodySize,
	})

	r := chi.NewRouter()
	r.Use(auth.LoadSessionUser)

	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))
	r.Mount("/policies", policiesfeature.Routes(policyHandler,
		employeesfeature.PolicyRoutes(employeeHandler, uploadHandler.HandleUpload)))
	r.Mount("/employees", employeesfeature.Routes(employeeHandler,
		membersfeature.EmployeeRoutes(memberHandler)))
	r.Mount("/members", membersfeature.Routes(memberHandler))

	return r, nil
}
