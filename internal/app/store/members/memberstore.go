// Package memberstore persists member (dependent) records and enforces the
// relationship invariants: at most one self and one spouse per employee,
// and the self record can never be deleted directly.
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

var (
	// ErrNotFound is returned when the member does not exist.
	ErrNotFound = errors.New("member not found")
	// ErrDuplicateSelf is returned when an employee already has a self member.
	ErrDuplicateSelf = errors.New("a self member already exists for this employee")
	// ErrDuplicateSpouse is returned when an employee already has a spouse member.
	ErrDuplicateSpouse = errors.New("a spouse member already exists for this employee")
	// ErrSelfUndeletable is returned when attempting to delete a self member
	// directly. The self record goes away only when its employee is deleted.
	ErrSelfUndeletable = errors.New("the self member cannot be deleted; delete the employee instead")

	errBadRelationship = errors.New(`relationship must be "self"|"spouse"|"child"|"parent"`)
	errMissingFields   = errors.New("first_name and last_name are required")
)

// GetByID loads a member by ObjectID. Returns ErrNotFound when missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByEmployee returns every member under the employee, self first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"employee_id": employeeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new member after validating the relationship invariants.
// A second self or spouse for the same employee is rejected with a
// conflict error and leaves the existing members untouched; the partial
// unique indexes back this up against concurrent writers.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	m.FirstName = normalize.Name(m.FirstName)
	m.LastName = normalize.Name(m.LastName)
	if m.FirstName == "" || m.LastName == "" {
		return models.Member{}, errMissingFields
	}
	if !models.IsValidRelationship(m.Relationship) {
		return models.Member{}, errBadRelationship
	}

	if m.Relationship == models.RelationshipSelf || m.Relationship == models.RelationshipSpouse {
		n, err := s.c.CountDocuments(ctx, bson.M{
			"employee_id":  m.EmployeeID,
			"relationship": m.Relationship,
		})
		if err != nil {
			return models.Member{}, err
		}
		if n > 0 {
			if m.Relationship == models.RelationshipSelf {
				return models.Member{}, ErrDuplicateSelf
			}
			return models.Member{}, ErrDuplicateSpouse
		}
	}

	m.ID = primitive.NewObjectID()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race to the partial unique index.
			if m.Relationship == models.RelationshipSelf {
				return models.Member{}, ErrDuplicateSelf
			}
			return models.Member{}, ErrDuplicateSpouse
		}
		return models.Member{}, err
	}
	return m, nil
}

// Update is the patch structure for member edits: nil means "leave
// unchanged", a pointer to "" means "clear" for the optional fields.
// Relationship is intentionally not patchable; a dependent's kind is fixed
// at creation.
type Update struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *string
	Gender      *string
}

// ApplyUpdate patches a member. Returns ErrNotFound when missing.
func (s *Store) ApplyUpdate(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	unset := bson.M{}

	if upd.FirstName != nil && normalize.Name(*upd.FirstName) != "" {
		set["first_name"] = normalize.Name(*upd.FirstName)
	}
	if upd.LastName != nil && normalize.Name(*upd.LastName) != "" {
		set["last_name"] = normalize.Name(*upd.LastName)
	}

	applyOptional := func(field string, v *string) {
		if v == nil {
			return
		}
		if normalize.Name(*v) == "" {
			unset[field] = ""
			return
		}
		set[field] = normalize.Name(*v)
	}
	applyOptional("date_of_birth", upd.DateOfBirth)
	applyOptional("gender", upd.Gender)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a member. Deleting a self member is always rejected with
// ErrSelfUndeletable regardless of caller role.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.Relationship == models.RelationshipSelf {
		return ErrSelfUndeletable
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "relationship": bson.M{"$ne": models.RelationshipSelf}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
