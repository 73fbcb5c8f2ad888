// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	aboutfeature "github.com/dalemusser/opshub/internal/app/features/about"
	analyticsfeature "github.com/dalemusser/opshub/internal/app/features/analytics"
	apiportalfeature "github.com/dalemusser/opshub/internal/app/features/apiportal"
	auditlogfeature "github.com/dalemusser/opshub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/opshub/internal/app/features/authgoogle"
	companiesfeature "github.com/dalemusser/opshub/internal/app/features/companies"
	contactfeature "github.com/dalemusser/opshub/internal/app/features/contact"
	dashboardfeature "github.com/dalemusser/opshub/internal/app/features/dashboard"
	documentsfeature "github.com/dalemusser/opshub/internal/app/features/documents"
	errorsfeature "github.com/dalemusser/opshub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/opshub/internal/app/features/health"
	homefeature "github.com/dalemusser/opshub/internal/app/features/home"
	integrationsfeature "github.com/dalemusser/opshub/internal/app/features/integrations"
	loginfeature "github.com/dalemusser/opshub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/opshub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/opshub/internal/app/features/projects"
	settingsfeature "github.com/dalemusser/opshub/internal/app/features/settings"
	teamfeature "github.com/dalemusser/opshub/internal/app/features/team"
	ticketsfeature "github.com/dalemusser/opshub/internal/app/features/tickets"
	timeentriesfeature "github.com/dalemusser/opshub/internal/app/features/timeentries"
	auditstore "github.com/dalemusser/opshub/internal/app/store/audit"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// OpsHub initializes the template engine, applies session and CSRF
// middleware, and mounts feature routers for all application areas: the
// public site, authentication, the dashboard, projects, tickets, time
// tracking, documents, team, companies, integrations, the API portal,
// the audit log, analytics, and settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.OpsHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Shared plumbing for handlers: error logging, audit logging, mail.
	errLog := errorsfeature.NewErrorLogger(logger)

	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:     appCfg.AuditLogAuth,
		Admin:    appCfg.AuditLogAdmin,
		Security: appCfg.AuditLogSecurity,
	})

	mail := mailer.New(
		appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName,
		logger,
	)

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.OpsHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	aboutHandler := aboutfeature.NewHandler(db, logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	contactHandler := contactfeature.NewHandler(db, errLog, mail, appCfg.ContactNotifyEmail, logger)
	r.Mount("/contact", contactfeature.Routes(contactHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		db, sessionMgr, errLog, auditLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.SessionKey,
		secure, logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based dashboard
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Delivery tracking
	projectsHandler := projectsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	ticketsHandler := ticketsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/tickets", ticketsfeature.Routes(ticketsHandler, sessionMgr))

	timeHandler := timeentriesfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/time", timeentriesfeature.Routes(timeHandler, sessionMgr))

	documentsHandler := documentsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	// People and accounts
	teamHandler := teamfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/team", teamfeature.Routes(teamHandler, sessionMgr))

	companiesHandler := companiesfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/companies", companiesfeature.Routes(companiesHandler, sessionMgr))

	// Administration
	integrationsHandler := integrationsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/integrations", integrationsfeature.Routes(integrationsHandler, sessionMgr))

	apiPortalHandler := apiportalfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/api-portal", apiportalfeature.Routes(apiPortalHandler, sessionMgr))

	auditLogHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit-log", auditlogfeature.Routes(auditLogHandler, sessionMgr))

	analyticsHandler := analyticsfeature.NewHandler(db, errLog, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

	settingsHandler := settingsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	// CSRF protection wraps the whole router; templates emit the token via
	// the gorilla.csrf.Token form field.
	protect := csrf.Protect(
		[]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	)

	return protect(r), nil
}
