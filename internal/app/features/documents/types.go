// internal/app/features/documents/types.go
package documents

import (
	"html/template"

	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one row in the documents table.
type listItem struct {
	ID          primitive.ObjectID
	Name        string
	ProjectName string
	Category    string
	Description template.HTML
	Size        string
	Uploaded    string
}

type projectOption struct {
	ID   string
	Name string
}

// listData is the view model for documents_list.gohtml.
type listData struct {
	viewdata.BaseVM

	Q        string
	Category string
	Project  string

	Items      []listItem
	Projects   []projectOption
	Categories []string

	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// newData is the view model for document_new.gohtml.
type newData struct {
	formutil.Base

	Name        string
	ProjectID   string
	Category    string
	Description string

	Projects   []projectOption
	Categories []string
}

// editData is the view model for document_edit.gohtml.
type editData struct {
	formutil.Base

	ID          string
	Name        string
	ProjectName string
	Category    string
	Description string

	Categories []string
}
