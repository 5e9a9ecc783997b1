// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, log level); AppConfig is
// everything specific to EnrollHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: enrollhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Bootstrap manager: created (or promoted) on startup so a fresh
	// deployment has a working login.
	BootstrapManagerEmail    string
	BootstrapManagerPassword string
	BootstrapManagerName     string

	// Bulk import configuration
	CSVDateOrder   string // "mdy" or "dmy": how slash dates in uploads are read
	CSVMaxRows     int    // maximum data rows accepted per import file
	CSVMaxBodySize int64  // maximum upload body size in bytes

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
