// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to OpsHub lives: the MongoDB
// connection, session cookies, SMTP, Google OAuth, and audit logging.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: opshub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit, SES SMTP credentials for AWS)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@opshub.example.com)
	MailFromName string // From display name (e.g., OpsHub)

	// ContactNotifyEmail receives a copy of each contact-form submission.
	// Leave empty to store submissions without sending mail.
	ContactNotifyEmail string

	// Base URL for absolute links (OAuth callbacks, email links)
	BaseURL string // e.g., "https://opshub.example.com" or "http://localhost:3000"

	// Audit logging: "all" (db+log), "db", "log", or "off" per category
	AuditLogAuth     string
	AuditLogAdmin    string
	AuditLogSecurity string

	// Google OAuth configuration (sign-in is password-only when unset)
	GoogleClientID     string
	GoogleClientSecret string
}
