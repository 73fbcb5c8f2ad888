// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/authz"
	"github.com/dalemusser/opshub/internal/app/system/normalize"
	"github.com/dalemusser/opshub/internal/app/system/search"
	"github.com/dalemusser/opshub/internal/app/system/status"
	"github.com/dalemusser/opshub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errCompanyNeeded  = errors.New("customer accounts must have company_id")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the users for the given IDs. Missing IDs are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user after normalizing and validating fields.
// The Role field may be any raw spelling; it is stored after normalize.Role
// and always resolved through authz.ResolveRole for permission checks.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.AuthMethod = normalize.AuthMethod(u.AuthMethod)
	if u.Status == "" {
		u.Status = status.Active
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	// Customers are always scoped to a company.
	if authz.ResolveRole(u.Role) == authz.RoleCustomer && u.CompanyID == nil {
		return models.User{}, errCompanyNeeded
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the updatable profile fields. Nil pointers leave the
// corresponding fields untouched.
type Update struct {
	FullName        *string
	Email           *string
	Role            *string
	Status          *string
	CompanyID       **primitive.ObjectID
	WeeklyHoursGoal *float64
}

// Update applies the non-nil fields of upd to the user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Role != nil {
		set["role"] = normalize.Role(*upd.Role)
	}
	if upd.Status != nil {
		st := normalize.Status(*upd.Status)
		if !status.IsValid(st) {
			return errBadStatus
		}
		set["status"] = st
	}
	if upd.CompanyID != nil {
		set["company_id"] = *upd.CompanyID
	}
	if upd.WeeklyHoursGoal != nil {
		set["weekly_hours_goal"] = *upd.WeeklyHoursGoal
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus flips a user between active and disabled.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	st = normalize.Status(st)
	if !status.IsValid(st) {
		return errBadStatus
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetPassword bcrypt-hashes the plaintext and stores it on the user.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"auth_method":   "password",
		"updated_at":    time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// VerifyPassword checks a login attempt against the stored hash. It
// returns the user only when the account exists, is active, and the
// password matches; callers treat all three failures identically.
func (s *Store) VerifyPassword(ctx context.Context, email, plaintext string) (*models.User, bool) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, false
	}
	if u.Status != "" && u.Status != status.Active {
		return nil, false
	}
	if u.PasswordHash == "" {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) != nil {
		return nil, false
	}
	return u, true
}

// ErrNotProvisioned is returned for Google sign-ins whose email has no
// account. Accounts are provisioned by admins; sign-in never creates one.
var ErrNotProvisioned = errors.New("no account exists for this email")

// GetForGoogleSignIn looks up the active account for a Google sign-in.
func (s *Store) GetForGoogleSignIn(ctx context.Context, email string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotProvisioned
	}
	if err != nil {
		return nil, err
	}
	if u.Status != "" && u.Status != status.Active {
		return nil, ErrNotProvisioned
	}
	return u, nil
}

// ListFilter narrows List/Count results. Zero values mean "no filter".
type ListFilter struct {
	Search    string
	Role      string
	Status    string
	CompanyID *primitive.ObjectID
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Search != "" {
		folded := text.Fold(f.Search)
		q["$or"] = bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": folded, "$options": ""}},
			bson.M{"email": bson.M{"$regex": normalize.Email(f.Search), "$options": ""}},
		}
	}
	if f.Role != "" {
		q["role"] = normalize.Role(f.Role)
	}
	if f.Status != "" {
		q["status"] = normalize.Status(f.Status)
	}
	if f.CompanyID != nil {
		q["company_id"] = *f.CompanyID
	}
	return q
}

// List returns users matching the filter using skip/limit paging. Rows are
// ordered by folded name, except for email-shaped searches over a fixed
// status, which sort by email so the indexed email path stays selective.
func (s *Store) List(ctx context.Context, f ListFilter, skip, limit int64) ([]models.User, error) {
	sortField := "full_name_ci"
	if f.CompanyID != nil {
		if search.EmailPivotOK(f.Search, f.Status, true) {
			sortField = "email"
		}
	} else if search.EmailPivotUnscopedOK(f.Search, f.Status) {
		sortField = "email"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of users matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// Delete removes a user.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// EnsureIndexes creates the indexes the users collection depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "full_name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "company_id", Value: 1}}},
	})
	return err
}
