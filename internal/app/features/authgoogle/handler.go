// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/opshub/internal/app/features/errors"
	userstore "github.com/dalemusser/opshub/internal/app/store/users"
	"github.com/dalemusser/opshub/internal/app/system/auditlog"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateCookieName = "oauth_state"

// Handler runs the Google OAuth sign-in flow. Accounts are provisioned by
// admins ahead of time; the callback never creates a user.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Users      *userstore.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://opshub.example.com/auth/google/callback"

	stateCodec *securecookie.SecureCookie
	secure     bool
}

// NewHandler creates a Google OAuth handler. sessionKey signs the short-lived
// state cookie the callback validates.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL, sessionKey string,
	secure bool,
	logger *zap.Logger,
) *Handler {
	codec := securecookie.New([]byte(sessionKey), nil)
	codec.MaxAge(600) // state is only valid for 10 minutes

	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     audit,
		Users:        userstore.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		stateCodec:   codec,
		secure:       secure,
	}
}

// IsConfigured reports whether Google OAuth credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Redirects to Google's consent screen with a signed anti-forgery state.       |
*─────────────────────────────────────────────────────────────────────────────*/

// stateClaims is what we sign into the state cookie so the callback can
// verify the round-trip and recover the return URL.
type stateClaims struct {
	Nonce  string `json:"nonce"`
	Return string `json:"return"`
}

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	nonce, err := generateNonce()
	if err != nil {
		h.Log.Error("generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	claims := stateClaims{
		Nonce:  nonce,
		Return: query.Get(r, "return"),
	}
	encoded, err := h.stateCodec.Encode(stateCookieName, claims)
	if err != nil {
		h.Log.Error("encode OAuth state cookie", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    encoded,
		Path:     "/auth/google",
		MaxAge:   600,
		Secure:   h.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauth2Config().AuthCodeURL(nonce)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("return_url", claims.Return))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Validates state, exchanges the code, and signs in the matching account.      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	claims, ok := h.validateState(w, r)
	if !ok {
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	user, err := h.Users.GetForGoogleSignIn(ctx, googleUser.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotProvisioned) {
			h.Log.Info("Google sign-in rejected: no account",
				zap.String("email", googleUser.Email))
			h.AuditLog.LoginGoogleRejected(ctx, r, googleUser.Email)
			http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
			return
		}
		h.Log.Error("look up Google user", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	h.signInAndRedirect(w, r, user, claims.Return)
}

// validateState decodes the state cookie, compares its nonce with the state
// query parameter, and clears the cookie.
func (h *Handler) validateState(w http.ResponseWriter, r *http.Request) (stateClaims, bool) {
	var claims stateClaims

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		return claims, false
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		h.Log.Warn("missing OAuth state cookie")
		return claims, false
	}

	// Single use: clear regardless of outcome.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		Secure:   h.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if err := h.stateCodec.Decode(stateCookieName, cookie.Value, &claims); err != nil {
		h.Log.Warn("invalid or expired OAuth state cookie", zap.Error(err))
		return claims, false
	}
	if claims.Nonce != state {
		h.Log.Warn("OAuth state mismatch")
		return claims, false
	}
	return claims, true
}

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
		AuthMethod: "google",
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("google sign-in: save session failed",
			zap.Error(err), zap.String("email", u.Email))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.AuditLog.LoginGoogleSuccess(r.Context(), r, u.ID, u.CompanyID, u.Email)

	h.Log.Info("user signed in via Google",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Google userinfo                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

func generateNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
