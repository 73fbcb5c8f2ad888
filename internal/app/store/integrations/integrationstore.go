// internal/app/store/integrations/integrationstore.go
package integrationstore

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
	ErrDuplicateIntegration = errors.New("an integration with this name already exists")
	errBadKind              = errors.New("unknown integration kind")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("integrations")}
}

func validKind(k string) bool {
	for _, v := range models.IntegrationKinds {
		if k == v {
			return true
		}
	}
	return false
}

func (s *Store) Create(ctx context.Context, in models.Integration) (models.Integration, error) {
	now := time.Now().UTC()
	in.ID = primitive.NewObjectID()
	in.Name = normalize.Name(in.Name)
	in.NameCI = text.Fold(in.Name)
	if !validKind(in.Kind) {
		return models.Integration{}, errBadKind
	}
	if in.Status == "" {
		in.Status = models.IntegrationDisconnected
	}
	in.CreatedAt = now
	in.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, in); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Integration{}, ErrDuplicateIntegration
		}
		return models.Integration{}, err
	}
	return in, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Integration, error) {
	var in models.Integration
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&in)
	if err != nil {
		return models.Integration{}, err
	}
	return in, nil
}

// Update modifies an integration's name and config.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in models.Integration) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if in.Name != "" {
		name := normalize.Name(in.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if in.Config != nil {
		set["config"] = in.Config
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateIntegration
		}
		return err
	}
	return nil
}

// SetStatus records a connection state change, stamping LastSyncAt when
// the integration reports connected.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	set := bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}
	if st == models.IntegrationConnected {
		set["last_sync_at"] = time.Now().UTC()
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

// Delete removes an integration by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all integrations ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Integration, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Integration
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the indexes the integrations collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "kind", Value: 1}}},
	})
	return err
}
