// internal/domain/models/timeentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeEntry records hours a user worked on a project on a given date.
//
// Hours is validated at the handler boundary to be a non-negative decimal;
// the aggregation layer assumes that invariant holds.
type TimeEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Date        time.Time          `bson:"date" json:"date"` // calendar day, stored at UTC midnight
	Hours       float64            `bson:"hours" json:"hours"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
