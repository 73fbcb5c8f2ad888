// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is a client company that projects are delivered for.
type Company struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	ContactName  string             `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	ContactEmail string             `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Industry     string             `bson:"industry,omitempty" json:"industry,omitempty"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | inactive

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
