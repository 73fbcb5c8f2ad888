// internal/domain/models/integration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Integration kinds.
const (
	IntegrationSlack   = "slack"
	IntegrationGitHub  = "github"
	IntegrationGitLab  = "gitlab"
	IntegrationJira    = "jira"
	IntegrationWebhook = "webhook"
)

// IntegrationKinds lists all supported integration kinds in display order.
var IntegrationKinds = []string{
	IntegrationSlack,
	IntegrationGitHub,
	IntegrationGitLab,
	IntegrationJira,
	IntegrationWebhook,
}

// Integration statuses.
const (
	IntegrationConnected    = "connected"
	IntegrationDisconnected = "disconnected"
	IntegrationError        = "error"
)

// Integration is a configured connection to an external service.
type Integration struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Kind   string             `bson:"kind" json:"kind"`
	Status string             `bson:"status" json:"status"`

	// Config holds kind-specific settings (webhook URL, workspace name, ...).
	// Secrets do not belong here; they go through the API key store.
	Config map[string]string `bson:"config,omitempty" json:"config,omitempty"`

	LastSyncAt *time.Time `bson:"last_sync_at,omitempty" json:"last_sync_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
