// internal/app/features/integrations/types.go
package integrations

import (
	"github.com/dalemusser/opshub/internal/app/system/formutil"
	"github.com/dalemusser/opshub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one row in the integrations list.
type listItem struct {
	ID       primitive.ObjectID
	Name     string
	Kind     string
	Status   string
	LastSync string
}

// listData is the view model for integrations_list.gohtml.
type listData struct {
	viewdata.BaseVM

	Items []listItem
}

// newData is the view model for integration_new.gohtml.
type newData struct {
	formutil.Base

	Name       string
	Kind       string
	WebhookURL string

	Kinds []string
}
