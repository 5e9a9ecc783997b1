package policystore

import (
	"context"
	"errors"
	"time"

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
	return &Store{c: db.Collection("policies")}
}

var (
	// ErrDuplicateNumber is returned when creating a policy whose number already exists.
	ErrDuplicateNumber = errors.New("a policy with this number already exists")
	errMissingFields   = errors.New("number, name, and company_name are required")
)

// GetByID loads a policy by ObjectID. Returns (nil, nil) when missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Policy, error) {
	var p models.Policy
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByManager returns the policies owned by the given manager, newest first.
func (s *Store) ListByManager(ctx context.Context, managerID primitive.ObjectID) ([]models.Policy, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"manager_id": managerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Policy
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new policy owned by managerID.
func (s *Store) Create(ctx context.Context, p models.Policy) (models.Policy, error) {
	if p.Number == "" || p.Name == "" || p.CompanyName == "" {
		return models.Policy{}, errMissingFields
	}

	p.ID = primitive.NewObjectID()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Policy{}, ErrDuplicateNumber
		}
		return models.Policy{}, err
	}
	return p, nil
}
