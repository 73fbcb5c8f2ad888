// internal/domain/models/ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket states.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// TicketStates lists all valid ticket states in display order.
var TicketStates = []string{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}

// Ticket priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// TicketPriorities lists all valid priorities in escalation order.
var TicketPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ValidTicketState reports whether s is one of the known ticket states.
func ValidTicketState(s string) bool {
	for _, v := range TicketStates {
		if s == v {
			return true
		}
	}
	return false
}

// ValidTicketPriority reports whether p is one of the known priorities.
func ValidTicketPriority(p string) bool {
	for _, v := range TicketPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Ticket is a unit of support or delivery work attached to a project.
type Ticket struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	State       string             `bson:"state" json:"state"`
	Priority    string             `bson:"priority" json:"priority"`

	AssigneeID *primitive.ObjectID `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	CreatedBy  *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`

	// SLADue is the agreed resolution deadline; ResolvedAt is stamped when the
	// ticket first enters a resolved or closed state.
	SLADue     *time.Time `bson:"sla_due,omitempty" json:"sla_due,omitempty"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsDone reports whether the ticket is in a terminal state (resolved or closed).
func (t *Ticket) IsDone() bool {
	return t.State == TicketResolved || t.State == TicketClosed
}

// MetSLA reports whether the ticket was resolved and met its SLA deadline.
// Tickets without an SLA deadline count as having met it.
func (t *Ticket) MetSLA() bool {
	if t.ResolvedAt == nil {
		return false
	}
	if t.SLADue == nil {
		return true
	}
	return !t.ResolvedAt.After(*t.SLADue)
}
