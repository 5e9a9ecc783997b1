package userstore

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
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when creating a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "manager"|"member"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns (nil, nil) when no user has that email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !models.IsValidStatus(u.Status) {
		return models.User{}, errBadStatus
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

// LinkEmployee points a member-role user at their employee record.
func (s *Store) LinkEmployee(ctx context.Context, userID, employeeID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "role": models.RoleMember},
		bson.M{"$set": bson.M{"employee_id": employeeID, "updated_at": time.Now()}})
	return err
}
