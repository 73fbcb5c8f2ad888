// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings holds installation-wide configuration editable by admins.
// There is a single settings document.
type SiteSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Display settings
	SiteName string `bson:"site_name" json:"site_name"` // Name shown in menu header

	// Footer
	FooterHTML string `bson:"footer_html,omitempty" json:"footer_html,omitempty"` // Custom HTML for footer

	// Operational defaults
	WeeklyHoursGoal float64 `bson:"weekly_hours_goal" json:"weekly_hours_goal"` // default per-developer target
	SLATargetHours  int     `bson:"sla_target_hours" json:"sla_target_hours"`   // default ticket resolution target

	// Audit fields
	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// DefaultSiteName is the default site name used when settings don't exist.
const DefaultSiteName = "OpsHub"

// DefaultWeeklyHoursGoal is used when settings don't exist or the goal is unset.
const DefaultWeeklyHoursGoal = 40.0

// DefaultSLATargetHours is used when settings don't exist or the target is unset.
const DefaultSLATargetHours = 48

// DefaultSettings returns the settings used when none have been saved.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		SiteName:        DefaultSiteName,
		WeeklyHoursGoal: DefaultWeeklyHoursGoal,
		SLATargetHours:  DefaultSLATargetHours,
	}
}
