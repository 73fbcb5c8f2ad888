// internal/app/store/companies/companystore.go
package companystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/app/system/status"
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

var ErrDuplicateCompany = errors.New("a company with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("companies")}
}

func (s *Store) Create(ctx context.Context, co models.Company) (models.Company, error) {
	now := time.Now().UTC()
	co.ID = primitive.NewObjectID()
	co.Name = normalize.Name(co.Name)
	co.NameCI = text.Fold(co.Name)
	co.ContactEmail = normalize.Email(co.ContactEmail)
	if co.Status == "" {
		co.Status = status.Active
	}
	co.CreatedAt = now
	co.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, co)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Company{}, ErrDuplicateCompany
		}
		return models.Company{}, err
	}
	return co, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	var co models.Company
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&co)
	if err != nil {
		return models.Company{}, err
	}
	return co, nil
}

// GetByIDs loads multiple companies by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var cos []models.Company
	if err := cur.All(ctx, &cos); err != nil {
		return nil, err
	}
	return cos, nil
}

// Update modifies a company's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, co models.Company) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if co.Name != "" {
		name := normalize.Name(co.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if co.ContactName != "" {
		set["contact_name"] = normalize.Name(co.ContactName)
	}
	if co.ContactEmail != "" {
		set["contact_email"] = normalize.Email(co.ContactEmail)
	}
	if co.Industry != "" {
		set["industry"] = co.Industry
	}
	if co.Status != "" {
		set["status"] = co.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCompany
		}
		return err
	}
	return nil
}

// Delete removes a company by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ExistsByNameCI checks if a company with the given case-insensitive name exists.
func (s *Store) ExistsByNameCI(ctx context.Context, nameCI string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"name_ci": nameCI}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NameExistsForOther checks if a company with the given name exists, excluding the specified ID.
// This is useful for update validation to ensure uniqueness while allowing the current record to keep its name.
func (s *Store) NameExistsForOther(ctx context.Context, nameCI string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"name_ci": nameCI,
		"_id":     bson.M{"$ne": excludeID},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Find returns companies matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination, sorting, projection).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Company, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cos []models.Company
	if err := cur.All(ctx, &cos); err != nil {
		return nil, err
	}
	return cos, nil
}

// Count returns the number of companies matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// EnsureIndexes creates the indexes the companies collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
