// internal/app/features/projects/types.go
package projects

import (
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is a single row in the projects list.
type listItem struct {
	ID          primitive.ObjectID
	Name        string
	NameCI      string // cursor key
	CompanyName string
	State       string
	LeaderName  string
}

// listData is the view model for the projects list page.
type listData struct {
	viewdata.BaseVM

	Q       string
	Company string
	State   string
	Items   []listItem

	Companies []companyOption

	// Pagination
	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// companyOption populates the company select on forms and filters.
type companyOption struct {
	ID   string
	Name string
}

// leaderOption populates the project-leader select.
type leaderOption struct {
	ID   string
	Name string
}

// newData is the view model for the "New Project" page.
type newData struct {
	formutil.Base

	Name             string
	Description      string
	CompanyID        string
	LeaderID         string
	StartDate        string
	EstimatedEndDate string

	Companies []companyOption
	Leaders   []leaderOption
}

// editData is the view model for the "Edit Project" page.
type editData struct {
	formutil.Base

	ID               string
	Name             string
	Description      string
	CompanyID        string
	CompanyName      string
	LeaderID         string
	State            string
	StartDate        string
	EstimatedEndDate string

	Leaders []leaderOption
	States  []string
}
