// internal/app/store/tickets/ticketstore.go
package ticketstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	errBadState    = errors.New("unknown ticket state")
	errBadPriority = errors.New("unknown ticket priority")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tickets")}
}

func (s *Store) Create(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Title = normalize.Name(t.Title)
	t.TitleCI = text.Fold(t.Title)
	if t.State == "" {
		t.State = models.TicketOpen
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !models.ValidTicketState(t.State) {
		return models.Ticket{}, errBadState
	}
	if !models.ValidTicketPriority(t.Priority) {
		return models.Ticket{}, errBadPriority
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Ticket, error) {
	var t models.Ticket
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// Update modifies a ticket's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, t models.Ticket) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if t.Title != "" {
		title := normalize.Name(t.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if t.Description != "" {
		set["description"] = t.Description
	}
	if t.Priority != "" {
		if !models.ValidTicketPriority(t.Priority) {
			return errBadPriority
		}
		set["priority"] = t.Priority
	}
	if t.AssigneeID != nil {
		set["assignee_id"] = *t.AssigneeID
	}
	if t.SLADue != nil {
		set["sla_due"] = *t.SLADue
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetState transitions a ticket. Entering a terminal state for the first
// time stamps ResolvedAt; reopening clears it.
func (s *Store) SetState(ctx context.Context, id primitive.ObjectID, state string) error {
	if !models.ValidTicketState(state) {
		return errBadState
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	set := bson.M{
		"state":      state,
		"updated_at": time.Now().UTC(),
	}
	done := state == models.TicketResolved || state == models.TicketClosed
	switch {
	case done && t.ResolvedAt == nil:
		set["resolved_at"] = time.Now().UTC()
	case !done && t.ResolvedAt != nil:
		_, err := s.c.UpdateByID(ctx, id, bson.M{
			"$set":   set,
			"$unset": bson.M{"resolved_at": ""},
		})
		return err
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a ticket by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows Find/Count results. Zero values mean "no filter".
type ListFilter struct {
	Search      string
	State       string
	Priority    string
	ProjectID   *primitive.ObjectID
	ProjectIDs  []primitive.ObjectID
	AssigneeID  *primitive.ObjectID
	CreatedFrom *time.Time
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Search != "" {
		q["title_ci"] = bson.M{"$regex": text.Fold(f.Search)}
	}
	if f.State != "" {
		q["state"] = f.State
	}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	if f.ProjectID != nil {
		q["project_id"] = *f.ProjectID
	} else if len(f.ProjectIDs) > 0 {
		q["project_id"] = bson.M{"$in": f.ProjectIDs}
	}
	if f.AssigneeID != nil {
		q["assignee_id"] = *f.AssigneeID
	}
	if f.CreatedFrom != nil {
		q["created_at"] = bson.M{"$gte": *f.CreatedFrom}
	}
	return q
}

// Find returns tickets matching the filter, newest first, using skip/limit paging.
func (s *Store) Find(ctx context.Context, f ListFilter, skip, limit int64) ([]models.Ticket, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Ticket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of tickets matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// ResolvedSince returns tickets that entered a terminal state at or after
// the given instant, for SLA reporting.
func (s *Store) ResolvedSince(ctx context.Context, since time.Time, projectIDs []primitive.ObjectID) ([]models.Ticket, error) {
	q := bson.M{"resolved_at": bson.M{"$gte": since}}
	if len(projectIDs) > 0 {
		q["project_id"] = bson.M{"$in": projectIDs}
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "resolved_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Ticket
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the indexes the tickets collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "assignee_id", Value: 1}}},
		{Keys: bson.D{{Key: "title_ci", Value: 1}}},
		{Keys: bson.D{{Key: "resolved_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
