// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"

	"github.com/dalemusser/opshub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, password).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (user/company/project CRUD and the like).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
	// Security controls logging for API key events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Security string
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

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr, stripping the port
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.CompanyID != nil {
		fields = append(fields, zap.String("company_id", event.CompanyID.Hex()))
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

	// Determine which config setting applies based on event category
	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategorySecurity:
		setting = l.config.Security
	default:
		setting = "all" // Default to logging everything for unknown categories
	}

	// Check if logging is disabled for this category
	if setting == "off" {
		return
	}

	// Log to zap if configured
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	// Log to MongoDB if configured
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, companyID *primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		CompanyID: companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedUserDisabled logs a failed login due to disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedRateLimit logs a failed login due to rate limiting.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email, limitType string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details: map[string]string{
			"email":      email,
			"limit_type": limitType,
		},
	})
}

// LoginGoogleSuccess logs a successful Google sign-in.
func (l *Logger) LoginGoogleSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, companyID *primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginGoogleSuccess,
		UserID:    &userID,
		CompanyID: companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginGoogleRejected logs a Google sign-in for an email with no account.
func (l *Logger) LoginGoogleRejected(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginGoogleRejected,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "no account for email",
		Details: map[string]string{
			"email": email,
		},
	})
}

// Logout logs a user logout.
// Accepts string IDs from SessionUser and converts them to ObjectIDs.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr, companyIDStr string) {
	var userID *primitive.ObjectID
	var companyID *primitive.ObjectID

	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}
	if oid, err := primitive.ObjectIDFromHex(companyIDStr); err == nil {
		companyID = &oid
	}

	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		CompanyID: companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// PasswordChanged logs a password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

// adminEvent is the shared shape of the admin CRUD helpers below.
func (l *Logger) adminEvent(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, actorRole string, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	details["actor_role"] = actorRole
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// UserCreated logs when an admin creates a user.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserCreated,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"role":       role,
		},
	})
}

// UserUpdated logs when an admin updates a user.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserUpdated,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":     actorRole,
			"fields_changed": fieldsChanged,
		},
	})
}

// UserDisabled logs when an admin disables a user account.
func (l *Logger) UserDisabled(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDisabled,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
		},
	})
}

// UserEnabled logs when an admin re-enables a user account.
func (l *Logger) UserEnabled(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserEnabled,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
		},
	})
}

// UserDeleted logs when an admin deletes a user.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDeleted,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
		},
	})
}

// CompanyCreated logs when a company is created.
func (l *Logger) CompanyCreated(ctx context.Context, r *http.Request, actorID, companyID primitive.ObjectID, actorRole, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCompanyCreated,
		ActorID:   &actorID,
		CompanyID: &companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"name":       name,
		},
	})
}

// CompanyUpdated logs when a company is updated.
func (l *Logger) CompanyUpdated(ctx context.Context, r *http.Request, actorID, companyID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCompanyUpdated,
		ActorID:   &actorID,
		CompanyID: &companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":     actorRole,
			"fields_changed": fieldsChanged,
		},
	})
}

// CompanyDeleted logs when a company is deleted.
func (l *Logger) CompanyDeleted(ctx context.Context, r *http.Request, actorID, companyID primitive.ObjectID, actorRole, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCompanyDeleted,
		ActorID:   &actorID,
		CompanyID: &companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"name":       name,
		},
	})
}

// ProjectCreated logs when a project is created.
func (l *Logger) ProjectCreated(ctx context.Context, r *http.Request, actorID, projectID, companyID primitive.ObjectID, actorRole, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectCreated,
		ActorID:   &actorID,
		CompanyID: &companyID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"project_id": projectID.Hex(),
			"name":       name,
		},
	})
}

// ProjectUpdated logs when a project is updated.
func (l *Logger) ProjectUpdated(ctx context.Context, r *http.Request, actorID, projectID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventProjectUpdated, actorID, actorRole, map[string]string{
		"project_id":     projectID.Hex(),
		"fields_changed": fieldsChanged,
	})
}

// ProjectStateChanged logs a project state transition.
func (l *Logger) ProjectStateChanged(ctx context.Context, r *http.Request, actorID, projectID primitive.ObjectID, actorRole, from, to string) {
	l.adminEvent(ctx, r, audit.EventProjectStateChanged, actorID, actorRole, map[string]string{
		"project_id": projectID.Hex(),
		"from":       from,
		"to":         to,
	})
}

// ProjectDeleted logs when a project is deleted.
func (l *Logger) ProjectDeleted(ctx context.Context, r *http.Request, actorID, projectID primitive.ObjectID, actorRole, name string) {
	l.adminEvent(ctx, r, audit.EventProjectDeleted, actorID, actorRole, map[string]string{
		"project_id": projectID.Hex(),
		"name":       name,
	})
}

// TicketCreated logs when a ticket is created.
func (l *Logger) TicketCreated(ctx context.Context, r *http.Request, actorID, ticketID, projectID primitive.ObjectID, actorRole, title string) {
	l.adminEvent(ctx, r, audit.EventTicketCreated, actorID, actorRole, map[string]string{
		"ticket_id":  ticketID.Hex(),
		"project_id": projectID.Hex(),
		"title":      title,
	})
}

// TicketUpdated logs when a ticket is updated.
func (l *Logger) TicketUpdated(ctx context.Context, r *http.Request, actorID, ticketID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventTicketUpdated, actorID, actorRole, map[string]string{
		"ticket_id":      ticketID.Hex(),
		"fields_changed": fieldsChanged,
	})
}

// TicketStateChanged logs a ticket state transition.
func (l *Logger) TicketStateChanged(ctx context.Context, r *http.Request, actorID, ticketID primitive.ObjectID, actorRole, from, to string) {
	l.adminEvent(ctx, r, audit.EventTicketStateChanged, actorID, actorRole, map[string]string{
		"ticket_id": ticketID.Hex(),
		"from":      from,
		"to":        to,
	})
}

// TicketDeleted logs when a ticket is deleted.
func (l *Logger) TicketDeleted(ctx context.Context, r *http.Request, actorID, ticketID primitive.ObjectID, actorRole string) {
	l.adminEvent(ctx, r, audit.EventTicketDeleted, actorID, actorRole, map[string]string{
		"ticket_id": ticketID.Hex(),
	})
}

// TimeEntryCreated logs a logged time entry.
func (l *Logger) TimeEntryCreated(ctx context.Context, r *http.Request, actorID, entryID, projectID primitive.ObjectID, actorRole string) {
	l.adminEvent(ctx, r, audit.EventTimeEntryCreated, actorID, actorRole, map[string]string{
		"entry_id":   entryID.Hex(),
		"project_id": projectID.Hex(),
	})
}

// TimeEntryUpdated logs when a time entry is edited.
func (l *Logger) TimeEntryUpdated(ctx context.Context, r *http.Request, actorID, entryID primitive.ObjectID, actorRole string) {
	l.adminEvent(ctx, r, audit.EventTimeEntryUpdated, actorID, actorRole, map[string]string{
		"entry_id": entryID.Hex(),
	})
}

// TimeEntryDeleted logs when a time entry is removed.
func (l *Logger) TimeEntryDeleted(ctx context.Context, r *http.Request, actorID, entryID primitive.ObjectID, actorRole string) {
	l.adminEvent(ctx, r, audit.EventTimeEntryDeleted, actorID, actorRole, map[string]string{
		"entry_id": entryID.Hex(),
	})
}

// DocumentUploaded logs a document upload.
func (l *Logger) DocumentUploaded(ctx context.Context, r *http.Request, actorID, documentID, projectID primitive.ObjectID, actorRole, name string) {
	l.adminEvent(ctx, r, audit.EventDocumentUploaded, actorID, actorRole, map[string]string{
		"document_id": documentID.Hex(),
		"project_id":  projectID.Hex(),
		"name":        name,
	})
}

// DocumentUpdated logs a document metadata change.
func (l *Logger) DocumentUpdated(ctx context.Context, r *http.Request, actorID, documentID primitive.ObjectID, actorRole string) {
	l.adminEvent(ctx, r, audit.EventDocumentUpdated, actorID, actorRole, map[string]string{
		"document_id": documentID.Hex(),
	})
}

// DocumentDeleted logs a document removal.
func (l *Logger) DocumentDeleted(ctx context.Context, r *http.Request, actorID, documentID primitive.ObjectID, actorRole, name string) {
	l.adminEvent(ctx, r, audit.EventDocumentDeleted, actorID, actorRole, map[string]string{
		"document_id": documentID.Hex(),
		"name":        name,
	})
}

// IntegrationCreated logs when an integration is configured.
func (l *Logger) IntegrationCreated(ctx context.Context, r *http.Request, actorID, integrationID primitive.ObjectID, actorRole, kind, name string) {
	l.adminEvent(ctx, r, audit.EventIntegrationCreated, actorID, actorRole, map[string]string{
		"integration_id": integrationID.Hex(),
		"kind":           kind,
		"name":           name,
	})
}

// IntegrationUpdated logs an integration config change.
func (l *Logger) IntegrationUpdated(ctx context.Context, r *http.Request, actorID, integrationID primitive.ObjectID, actorRole string) {
	l.adminEvent(ctx, r, audit.EventIntegrationUpdated, actorID, actorRole, map[string]string{
		"integration_id": integrationID.Hex(),
	})
}

// IntegrationStatusChanged logs an integration connect/disconnect.
func (l *Logger) IntegrationStatusChanged(ctx context.Context, r *http.Request, actorID, integrationID primitive.ObjectID, actorRole, from, to string) {
	l.adminEvent(ctx, r, audit.EventIntegrationStatusChanged, actorID, actorRole, map[string]string{
		"integration_id": integrationID.Hex(),
		"from":           from,
		"to":             to,
	})
}

// IntegrationDeleted logs when an integration is removed.
func (l *Logger) IntegrationDeleted(ctx context.Context, r *http.Request, actorID, integrationID primitive.ObjectID, actorRole, name string) {
	l.adminEvent(ctx, r, audit.EventIntegrationDeleted, actorID, actorRole, map[string]string{
		"integration_id": integrationID.Hex(),
		"name":           name,
	})
}

// SettingsUpdated logs a site-settings change.
func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.adminEvent(ctx, r, audit.EventSettingsUpdated, actorID, actorRole, map[string]string{
		"fields_changed": fieldsChanged,
	})
}

// --- Security Events ---

// APIKeyCreated logs when an API key is issued.
func (l *Logger) APIKeyCreated(ctx context.Context, r *http.Request, actorID, keyID primitive.ObjectID, actorRole, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		EventType: audit.EventAPIKeyCreated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"key_id":     keyID.Hex(),
			"name":       name,
		},
	})
}

// APIKeyRevoked logs when an API key is revoked.
func (l *Logger) APIKeyRevoked(ctx context.Context, r *http.Request, actorID, keyID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		EventType: audit.EventAPIKeyRevoked,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"key_id":     keyID.Hex(),
		},
	})
}

// APIKeyDenied logs a rejected API request (unknown or revoked key).
func (l *Logger) APIKeyDenied(ctx context.Context, r *http.Request, prefix string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAPIKeyDenied,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "unknown or revoked key",
		Details: map[string]string{
			"prefix": prefix,
		},
	})
}
