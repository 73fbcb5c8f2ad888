// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project states. State is a closed set; anything else is rejected at the
// handler boundary before it reaches the store.
const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in_progress"
	ProjectOnHold     = "on_hold"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// ProjectStates lists all valid project states in display order.
var ProjectStates = []string{
	ProjectPlanning,
	ProjectInProgress,
	ProjectOnHold,
	ProjectCompleted,
	ProjectCancelled,
}

// ValidProjectState reports whether s is one of the known project states.
func ValidProjectState(s string) bool {
	for _, v := range ProjectStates {
		if s == v {
			return true
		}
	}
	return false
}

// Project is a delivery engagement for a client company.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID   primitive.ObjectID `bson:"company_id" json:"company_id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	State       string             `bson:"state" json:"state"`

	LeaderID *primitive.ObjectID `bson:"leader_id,omitempty" json:"leader_id,omitempty"`

	StartDate        *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EstimatedEndDate *time.Time `bson:"estimated_end_date,omitempty" json:"estimated_end_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
