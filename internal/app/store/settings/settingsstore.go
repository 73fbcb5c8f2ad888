// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/opshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the site_settings collection.
// There is a single settings document for the installation.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// defaults returns the settings used when nothing has been saved yet.
func defaults() models.SiteSettings {
	return models.SiteSettings{
		SiteName:        models.DefaultSiteName,
		WeeklyHoursGoal: models.DefaultWeeklyHoursGoal,
		SLATargetHours:  models.DefaultSLATargetHours,
	}
}

// Get returns the site settings, falling back to defaults when no document
// exists. Unset operational values are filled in so callers never see a
// zero goal.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return defaults(), nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	if settings.SiteName == "" {
		settings.SiteName = models.DefaultSiteName
	}
	if settings.WeeklyHoursGoal <= 0 {
		settings.WeeklyHoursGoal = models.DefaultWeeklyHoursGoal
	}
	if settings.SLATargetHours <= 0 {
		settings.SLATargetHours = models.DefaultSLATargetHours
	}
	return settings, nil
}

// Save updates the site settings. Uses upsert so it works whether a
// settings document exists or not.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings) error {
	now := time.Now().UTC()
	settings.UpdatedAt = &now

	update := bson.M{
		"$set": bson.M{
			"site_name":         settings.SiteName,
			"footer_html":       settings.FooterHTML,
			"weekly_hours_goal": settings.WeeklyHoursGoal,
			"sla_target_hours":  settings.SLATargetHours,
			"updated_at":        settings.UpdatedAt,
			"updated_by_id":     settings.UpdatedByID,
			"updated_by_name":   settings.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
