// internal/app/store/timeentries/timeentrystore.go
package timeentrystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var errBadHours = errors.New("hours must be a non-negative number")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("time_entries")}
}

// Create inserts a time entry. The date is truncated to its UTC calendar
// day so window queries compare whole days only.
func (s *Store) Create(ctx context.Context, e models.TimeEntry) (models.TimeEntry, error) {
	if e.Hours < 0 {
		return models.TimeEntry{}, errBadHours
	}
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.Date = datewindow.Day(e.Date)
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.TimeEntry{}, err
	}
	return e, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		return models.TimeEntry{}, err
	}
	return e, nil
}

// Update modifies an entry's hours, date, and description.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.TimeEntry) error {
	if e.Hours < 0 {
		return errBadHours
	}
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if e.Hours > 0 {
		set["hours"] = e.Hours
	}
	if !e.Date.IsZero() {
		set["date"] = datewindow.Day(e.Date)
	}
	if e.Description != "" {
		set["description"] = e.Description
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an entry by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows Find/Count results. Zero values mean "no filter";
// From/To bound the entry date inclusively when non-zero.
type ListFilter struct {
	UserID    *primitive.ObjectID
	ProjectID *primitive.ObjectID
	From      time.Time
	To        time.Time
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.UserID != nil {
		q["user_id"] = *f.UserID
	}
	if f.ProjectID != nil {
		q["project_id"] = *f.ProjectID
	}
	date := bson.M{}
	if !f.From.IsZero() {
		date["$gte"] = datewindow.Day(f.From)
	}
	if !f.To.IsZero() {
		date["$lte"] = datewindow.Day(f.To)
	}
	if len(date) > 0 {
		q["date"] = date
	}
	return q
}

// Find returns entries matching the filter, most recent date first.
func (s *Store) Find(ctx context.Context, f ListFilter, skip, limit int64) ([]models.TimeEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.TimeEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of entries matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// ForUserSince returns all of a user's entries on or after the given day.
// Rollups over these rows happen in the aggregate package, not in Mongo,
// so the window logic stays in one testable place.
func (s *Store) ForUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.TimeEntry, error) {
	id := userID
	return s.Find(ctx, ListFilter{UserID: &id, From: since}, 0, 0)
}

// EnsureIndexes creates the indexes the time_entries collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "date", Value: -1}}},
	})
	return err
}
