// internal/app/features/tickets/types.go
package tickets

import (
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one row in the tickets table.
type listItem struct {
	ID           primitive.ObjectID
	Title        string
	ProjectName  string
	State        string
	Priority     string
	AssigneeName string
	Overdue      bool
	Created      string
}

// projectOption populates the project select in filters and forms.
type projectOption struct {
	ID   string
	Name string
}

// assigneeOption populates the assignee select.
type assigneeOption struct {
	ID   string
	Name string
}

// listData is the view model for tickets_list.gohtml.
type listData struct {
	viewdata.BaseVM

	Q        string
	State    string
	Priority string
	Window   string
	Project  string

	Items    []listItem
	Projects []projectOption

	States     []string
	Priorities []string

	// Resolution stats over the last 30 days.
	SLAPercent    int
	ResolvedCount int

	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

// newData is the view model for ticket_new.gohtml.
type newData struct {
	formutil.Base

	Title       string
	Description string
	ProjectID   string
	Priority    string
	AssigneeID  string
	SLADue      string

	Projects   []projectOption
	Assignees  []assigneeOption
	Priorities []string
}

// editData is the view model for ticket_edit.gohtml.
type editData struct {
	formutil.Base

	ID          string
	Title       string
	Description string
	ProjectName string
	State       string
	Priority    string
	AssigneeID  string
	SLADue      string

	Assignees  []assigneeOption
	States     []string
	Priorities []string
}
