// internal/app/store/apikeys/apikeystore.go
package apikeystore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrKeyNotFound is returned when no active key matches a presented secret.
var ErrKeyNotFound = errors.New("api key not found or revoked")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("api_keys")}
}

// keyPrefix is the visible scheme prefix on every issued key.
const keyPrefix = "ohk_"

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Generate creates a new key, stores its hash, and returns the record
// along with the full secret. The secret is never stored and cannot be
// recovered after this call.
func (s *Store) Generate(ctx context.Context, name string, scopes []string, createdBy *primitive.ObjectID) (models.APIKey, string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return models.APIKey{}, "", err
	}
	secret := keyPrefix + hex.EncodeToString(raw)

	k := models.APIKey{
		ID:        primitive.NewObjectID(),
		Name:      normalize.Name(name),
		Prefix:    secret[:len(keyPrefix)+8],
		KeyHash:   hashSecret(secret),
		Scopes:    scopes,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, k); err != nil {
		return models.APIKey{}, "", err
	}
	return k, secret, nil
}

// Authenticate resolves a presented secret to its active key record and
// stamps LastUsedAt. Revoked and unknown keys both return ErrKeyNotFound.
func (s *Store) Authenticate(ctx context.Context, secret string) (models.APIKey, error) {
	var k models.APIKey
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"key_hash": hashSecret(secret), "revoked_at": nil},
		bson.M{"$set": bson.M{"last_used_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&k)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.APIKey{}, ErrKeyNotFound
	}
	if err != nil {
		return models.APIKey{}, err
	}
	return k, nil
}

// Revoke permanently deactivates a key. Revoking twice is not an error.
func (s *Store) Revoke(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "revoked_at": nil},
		bson.M{"$set": bson.M{"revoked_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Already revoked or never existed; distinguish for callers.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

// GetByID loads a key record by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.APIKey, error) {
	var k models.APIKey
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&k); err != nil {
		return models.APIKey{}, err
	}
	return k, nil
}

// List returns all keys, newest first, including revoked ones.
func (s *Store) List(ctx context.Context) ([]models.APIKey, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.APIKey
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the indexes the api_keys collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("api_keys indexes: %w", err)
	}
	return nil
}
