// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for EnrollHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ENROLLHUB_MONGO_URI, ENROLLHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "enroll_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "enrollhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Bootstrap manager (created on startup so a fresh install has a login)
	{Name: "bootstrap_manager_email", Default: "", Desc: "Email of the manager account to create/promote on startup"},
	{Name: "bootstrap_manager_password", Default: "", Desc: "Password for the bootstrap manager (only used when the account is created)"},
	{Name: "bootstrap_manager_name", Default: "Administrator", Desc: "Display name for the bootstrap manager"},

	// Bulk import settings
	{Name: "csv_date_order", Default: "mdy", Desc: "How slash dates in CSV uploads are read: 'mdy' or 'dmy'"},
	{Name: "csv_max_rows", Default: 5000, Desc: "Maximum data rows accepted per CSV import"},
	{Name: "csv_max_body_size", Default: 10 << 20, Desc: "Maximum CSV upload body size in bytes"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config
// files, environment variables (WAFFLE_* for core, ENROLLHUB_* for app),
// and command-line flags, merging with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ENROLLHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		BootstrapManagerEmail:    appValues.String("bootstrap_manager_email"),
		BootstrapManagerPassword: appValues.String("bootstrap_manager_password"),
		BootstrapManagerName:     appValues.String("bootstrap_manager_name"),

		CSVDateOrder:   appValues.String("csv_date_order"),
		CSVMaxRows:     appValues.Int("csv_max_rows"),
		CSVMaxBodySize: int64(appValues.Int("csv_max_body_size")),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// EnrollHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.CSVDateOrder != "mdy" && appCfg.CSVDateOrder != "dmy" {
		return fmt.Errorf("csv_date_order must be 'mdy' or 'dmy', got %q", appCfg.CSVDateOrder)
	}

	if appCfg.BootstrapManagerEmail != "" && appCfg.BootstrapManagerPassword == "" {
		return fmt.Errorf("bootstrap_manager_password is required when bootstrap_manager_email is set")
	}

	return nil
}
