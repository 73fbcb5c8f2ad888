// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"html/template"
	"net/http"

	settingsstore "github.com/dalemusser/opshub/internal/app/store/settings"
	"github.com/dalemusser/opshub/internal/app/system/auth"
	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/timeouts"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, db, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	// Site settings (from database)
	SiteName   string
	FooterHTML template.HTML

	// User context (from auth middleware)
	IsLoggedIn  bool
	Role        authz.Role
	UserName    string
	CompanyName string // client company name for customer contacts

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string // Token for form submission
}

// Can reports whether the current role has the given capability.
// Templates use this to decide which nav items and actions to show.
func (vm BaseVM) Can(c authz.Capability) bool {
	return authz.HasCapability(vm.Role, c)
}

// IsStaff reports whether the current role is a staff role.
func (vm BaseVM) IsStaff() bool {
	return vm.Role.IsStaff()
}

// NewBaseVM creates a fully populated BaseVM for a page.
// This is the preferred way to create a BaseVM for embedding in view models.
//
// Parameters:
//   - r: the HTTP request
//   - db: database for loading site settings (can be nil for defaults)
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, db *mongo.Database, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		settings, err := settingsstore.New(db).Get(ctx)
		if err == nil {
			vm.SiteName = settings.SiteName
			vm.FooterHTML = template.HTML(settings.FooterHTML)
		}

		// Customers see their company name in the header
		if user, ok := auth.CurrentUser(r); ok && user.CompanyID != "" {
			if oid, err := primitive.ObjectIDFromHex(user.CompanyID); err == nil {
				var co models.Company
				if err := db.Collection("companies").
					FindOne(ctx, bson.M{"_id": oid}).Decode(&co); err == nil {
					vm.CompanyName = co.Name
				}
			}
		}
	}

	return vm
}

// GetSiteName returns the site name from settings, or the default if not available.
func GetSiteName(ctx context.Context, db *mongo.Database) string {
	if db == nil {
		return models.DefaultSiteName
	}
	settings, err := settingsstore.New(db).Get(ctx)
	if err != nil {
		return models.DefaultSiteName
	}
	return settings.SiteName
}

// GetSettings returns the full site settings, or defaults if not available.
func GetSettings(ctx context.Context, db *mongo.Database) models.SiteSettings {
	if db == nil {
		return models.DefaultSettings()
	}
	settings, err := settingsstore.New(db).Get(ctx)
	if err != nil {
		return models.DefaultSettings()
	}
	return settings
}
