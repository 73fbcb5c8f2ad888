// internal/app/features/team/types.go
package team

import (
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one row in the staff roster.
type listItem struct {
	ID          primitive.ObjectID
	FullName    string
	Email       string
	Role        string
	Status      string
	CompanyName string
	AuthMethod  string
}

type companyOption struct {
	ID   string
	Name string
}

// listData is the view model for team_list.gohtml.
type listData struct {
	viewdata.BaseVM

	Q      string
	Role   string
	Status string

	Items []listItem
	Roles []string

	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// newData is the view model for team_new.gohtml.
type newData struct {
	formutil.Base

	FullName   string
	Email      string
	Role       string
	AuthMethod string
	CompanyID  string
	Password   string

	Roles     []string
	Companies []companyOption
}

// editData is the view model for team_edit.gohtml.
type editData struct {
	formutil.Base

	ID              string
	FullName        string
	Email           string
	Role            string
	Status          string
	CompanyID       string
	WeeklyHoursGoal string

	Roles     []string
	Companies []companyOption
}
