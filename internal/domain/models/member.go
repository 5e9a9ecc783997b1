// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Relationship kinds for members. Every employee has exactly one self
// record (created with the employee) and at most one spouse.
const (
	RelationshipSelf   = "self"
	RelationshipSpouse = "spouse"
	RelationshipChild  = "child"
	RelationshipParent = "parent"
)

// Member is a covered person under an employee's enrolment: a dependent,
// or the employee themself via the self record. The self record cannot be
// deleted directly; it goes away when the employee is deleted (cascade).
type Member struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EmployeeID   primitive.ObjectID  `bson:"employee_id" json:"employee_id"`
	FirstName    string              `bson:"first_name" json:"first_name"`
	LastName     string              `bson:"last_name" json:"last_name"`
	DateOfBirth  string              `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender       string              `bson:"gender,omitempty" json:"gender,omitempty"`
	Relationship string              `bson:"relationship" json:"relationship"`
	CreatedBy    *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidRelationship reports whether rel is a recognized relationship kind.
func IsValidRelationship(rel string) bool {
	switch rel {
	case RelationshipSelf, RelationshipSpouse, RelationshipChild, RelationshipParent:
		return true
	}
	return false
}
