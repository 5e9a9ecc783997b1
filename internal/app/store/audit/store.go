package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Event is one audit trail entry. ActorID is who performed the action;
// TargetID is the record acted upon (employee, member, policy, user).
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Category  string              `bson:"category"`   // auth | admin
	EventType string              `bson:"event_type"` // e.g. "login", "employee_delete", "bulk_import"
	Success   bool                `bson:"success"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty"`
	PolicyID  *primitive.ObjectID `bson:"policy_id,omitempty"`
	IP        string              `bson:"ip,omitempty"`

	FailureReason string            `bson:"failure_reason,omitempty"`
	Details       map[string]string `bson:"details,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
}

// Store persists audit events.
type Store struct {
	c *mongo.Collection
}

// New creates an audit Store over the audit_events collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Insert writes one event, stamping ID and CreatedAt.
func (s *Store) Insert(ctx context.Context, ev Event) error {
	ev.ID = primitive.NewObjectID()
	ev.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, ev)
	return err
}
