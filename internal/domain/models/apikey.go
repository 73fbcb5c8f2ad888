// internal/domain/models/apikey.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIKey is a credential for the customer-facing API portal.
//
// Only the SHA-256 hash of the secret is stored. The full secret is shown
// once at creation time and cannot be recovered afterwards; Prefix keeps the
// first characters so users can tell their keys apart.
type APIKey struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name    string              `bson:"name" json:"name"`
	Prefix  string              `bson:"prefix" json:"prefix"`
	KeyHash string              `bson:"key_hash" json:"-"`
	Scopes  []string            `bson:"scopes,omitempty" json:"scopes,omitempty"`

	CreatedBy  *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	LastUsedAt *time.Time          `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time          `bson:"revoked_at,omitempty" json:"revoked_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Active reports whether the key can still be used.
func (k *APIKey) Active() bool {
	return k.RevokedAt == nil
}
