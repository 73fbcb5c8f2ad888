// internal/app/features/timeentries/types.go
package timeentries

import (
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one row in the time entries table.
type listItem struct {
	ID          primitive.ObjectID
	Date        string
	ProjectName string
	UserName    string
	Hours       float64
	Description string
	Mine        bool
}

type projectOption struct {
	ID   string
	Name string
}

type userOption struct {
	ID   string
	Name string
}

// listData is the view model for time_list.gohtml.
type listData struct {
	viewdata.BaseVM

	Window  string
	Query   string
	Project string
	User    string

	Items    []listItem
	Projects []projectOption
	Users    []userOption

	// Rollups for the viewed user over the current day and ISO week.
	HoursToday    float64
	HoursWeek     float64
	GoalHours     float64
	GoalPercent   int
	Overtime      bool
	OvertimeHours float64
	TotalHours    float64

	CanLogTime bool
}

// newData is the view model for time_new.gohtml.
type newData struct {
	formutil.Base

	Date        string
	ProjectID   string
	Hours       string
	Description string

	Projects []projectOption
}

// editData is the view model for time_edit.gohtml.
type editData struct {
	formutil.Base

	ID          string
	Date        string
	ProjectName string
	Hours       string
	Description string
}
