// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document categories.
const (
	DocContract      = "contract"
	DocSpecification = "specification"
	DocReport        = "report"
	DocInvoice       = "invoice"
	DocOther         = "other"
)

// DocumentCategories lists all valid document categories in display order.
var DocumentCategories = []string{DocContract, DocSpecification, DocReport, DocInvoice, DocOther}

// Document is an uploaded file's metadata, attached to a project.
// The file body lives on the storage backend; Path is its storage key.
type Document struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project_id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Category    string              `bson:"category" json:"category"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Path        string              `bson:"path" json:"path"`
	SizeBytes   int64               `bson:"size_bytes,omitempty" json:"size_bytes,omitempty"`
	UploadedBy  *primitive.ObjectID `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
