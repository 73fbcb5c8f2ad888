// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents everyone who can sign in: staff (admins, KAMs, project
// leaders, developers) and customer contacts.
//
// NOTE:
//   - Role is stored as the raw string the admin assigned. Always normalize
//     through authz.ResolveRole before any permission check; never compare
//     Role directly.
//   - CompanyID is set for customers (their client company) and is optional
//     for staff roles.
type User struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName   string              `bson:"full_name" json:"full_name"`
	FullNameCI string              `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string              `bson:"email" json:"email"`
	AuthMethod string              `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	Role       string              `bson:"role" json:"role"`                                   // admin | kam | leader | developer | customer
	Status     string              `bson:"status,omitempty" json:"status,omitempty"`           // active | disabled
	CompanyID  *primitive.ObjectID `bson:"company_id,omitempty" json:"company_id,omitempty"`

	// Password login only; empty for OAuth-only accounts.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	WeeklyHoursGoal float64 `bson:"weekly_hours_goal,omitempty" json:"weekly_hours_goal,omitempty"` // 0 = use site default

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
