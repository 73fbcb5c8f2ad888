// internal/app/features/companies/types.go
package companies

import (
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one row in the company register.
type listItem struct {
	ID           primitive.ObjectID
	Name         string
	ContactName  string
	ContactEmail string
	Industry     string
	Status       string
	ProjectCount int64
}

// listData is the view model for companies_list.gohtml.
type listData struct {
	viewdata.BaseVM

	Q      string
	Status string

	Items []listItem

	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// newData is the view model for company_new.gohtml.
type newData struct {
	formutil.Base

	Name         string
	ContactName  string
	ContactEmail string
	Industry     string
}

// editData is the view model for company_edit.gohtml.
type editData struct {
	formutil.Base

	ID           string
	Name         string
	ContactName  string
	ContactEmail string
	Industry     string
	Status       string
}
