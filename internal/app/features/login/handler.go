package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/app/system/ratelimit"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Users         *userstore.Store
	Limiter       *ratelimit.LoginLimiter
	GoogleEnabled bool
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		Users:         userstore.New(db),
		Limiter:       ratelimit.NewLoginLimiter(),
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Rate limit before touching the database; both the source IP and the
	// target account are limited so neither can be hammered.
	if allowed, limitType := h.Limiter.Check(r, email); !allowed {
		h.AuditLog.LoginFailedRateLimit(ctx, r, email, limitType)
		h.renderFormWithError(w, r, "Too many sign-in attempts. Please wait a minute and try again.", email, ret)
		return
	}

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.renderFormWithError(w, r, "Email or password is incorrect.", email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "login: find user failed", err, "A server error occurred.", "/login")
		return
	}

	if normalize.Status(u.Status) == "disabled" {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		h.renderFormWithError(w, r, "Your account is disabled. Please contact your account manager.", email, ret)
		return
	}

	if normalize.AuthMethod(u.AuthMethod) == "google" {
		if h.GoogleEnabled {
			redirectURL := "/auth/google"
			if ret != "" {
				redirectURL += "?return=" + ret
			}
			http.Redirect(w, r, redirectURL, http.StatusSeeOther)
			return
		}
		h.renderFormWithError(w, r, "This account signs in with Google, which is not configured. Please contact an administrator.", email, ret)
		return
	}

	verified, ok := h.Users.VerifyPassword(ctx, email, password)
	if !ok {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		h.renderFormWithError(w, r, "Email or password is incorrect.", email, ret)
		return
	}

	h.Limiter.ResetEmail(email)
	h.signInAndRedirect(w, r, verified, ret)
}

// signInAndRedirect writes the session cookie, audits the login, and sends
// the user on to their destination.
func (h *Handler) signInAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	companyID := ""
	if u.CompanyID != nil {
		companyID = u.CompanyID.Hex()
	}

	sessionUser := &auth.SessionUser{
		ID:         u.ID.Hex(),
		Name:       u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		CompanyID:  companyID,
		AuthMethod: normalize.AuthMethod(u.AuthMethod),
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("login: save session failed", zap.Error(err), zap.String("email", u.Email))
		h.renderFormWithError(w, r, "Unable to create a session. Please try again.", u.Email, returnURL)
		return
	}

	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, u.CompanyID, sessionUser.AuthMethod, u.Email)

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	}
	templates.Render(w, r, "login", data)
}
