// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateProject = errors.New("a project with this name already exists for this company")
	errBadState         = errors.New("unknown project state")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	if p.State == "" {
		p.State = models.ProjectPlanning
	}
	if !models.ValidProjectState(p.State) {
		return models.Project{}, errBadState
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateProject
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByIDs loads multiple projects by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a project's mutable fields and refreshes UpdatedAt.
// LeaderID, StartDate, and EstimatedEndDate are applied whenever non-nil.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Project) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Name != "" {
		name := normalize.Name(p.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.State != "" {
		if !models.ValidProjectState(p.State) {
			return errBadState
		}
		set["state"] = p.State
	}
	if p.LeaderID != nil {
		set["leader_id"] = *p.LeaderID
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EstimatedEndDate != nil {
		set["estimated_end_date"] = *p.EstimatedEndDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateProject
		}
		return err
	}
	return nil
}

// SetState transitions a project to the given state.
func (s *Store) SetState(ctx context.Context, id primitive.ObjectID, state string) error {
	if !models.ValidProjectState(state) {
		return errBadState
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"state":      state,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a project by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows Find/Count results. Zero values mean "no filter".
type ListFilter struct {
	Search    string
	State     string
	CompanyID *primitive.ObjectID
	LeaderID  *primitive.ObjectID
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["name_ci"] = bson.M{"$regex": text.Fold(f.Search)}
	}
	if f.State != "" {
		q["state"] = f.State
	}
	if f.CompanyID != nil {
		q["company_id"] = *f.CompanyID
	}
	if f.LeaderID != nil {
		q["leader_id"] = *f.LeaderID
	}
	return q
}

// Find returns projects matching the filter, newest first, using skip/limit paging.
func (s *Store) Find(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Project, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of projects matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// CountByState returns per-state project counts for the given company
// scope (nil means all companies).
func (s *Store) CountByState(ctx context.Context, companyID *primitive.ObjectID) (map[string]int64, error) {
	match := bson.M{}
	if companyID != nil {
		match["company_id"] = *companyID
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$state", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		State string `bson:"_id"`
		N     int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.State] = r.N
	}
	return counts, nil
}

// EnsureIndexes creates the indexes the projects collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "leader_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
