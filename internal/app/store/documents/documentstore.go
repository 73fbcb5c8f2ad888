// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var errBadCategory = errors.New("unknown document category")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

func validCategory(c string) bool {
	for _, v := range models.DocumentCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Name = normalize.Name(d.Name)
	d.NameCI = text.Fold(d.Name)
	if d.Category == "" {
		d.Category = models.DocOther
	}
	if !validCategory(d.Category) {
		return models.Document{}, errBadCategory
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Document{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	var d models.Document
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return models.Document{}, err
	}
	return d, nil
}

// Update modifies a document's name, category, and description.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, d models.Document) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if d.Name != "" {
		name := normalize.Name(d.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if d.Category != "" {
		if !validCategory(d.Category) {
			return errBadCategory
		}
		set["category"] = d.Category
	}
	if d.Description != "" {
		set["description"] = d.Description
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

// Delete removes a document's metadata by ID. Deleting the stored file
// body is the caller's responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows Find/Count results. Zero values mean "no filter".
type ListFilter struct {
	Search     string
	Category   string
	ProjectID  *primitive.ObjectID
	ProjectIDs []primitive.ObjectID
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["name_ci"] = bson.M{"$regex": text.Fold(f.Search)}
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.ProjectID != nil {
		q["project_id"] = *f.ProjectID
	} else if len(f.ProjectIDs) > 0 {
		q["project_id"] = bson.M{"$in": f.ProjectIDs}
	}
	return q
}

// Find returns documents matching the filter, newest first, using skip/limit paging.
func (s *Store) Find(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Document
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of documents matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// EnsureIndexes creates the indexes the documents collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
