// internal/domain/models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee is a person enrolled by HR under a policy. Code is unique within
// the policy (enforced via the lowercased code_ci field). UserID is nil for
// employees who have no login identity.
type Employee struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PolicyID    primitive.ObjectID  `bson:"policy_id" json:"policy_id"`
	Code        string              `bson:"code" json:"code"`
	CodeCI      string              `bson:"code_ci" json:"-"` // lowercase, for the per-policy unique index
	FirstName   string              `bson:"first_name" json:"first_name"`
	LastName    string              `bson:"last_name" json:"last_name"`
	Email       string              `bson:"email" json:"email"`
	Phone       string              `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth string              `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender      string              `bson:"gender,omitempty" json:"gender,omitempty"`               // Male | Female | Other
	Department  string              `bson:"department,omitempty" json:"department,omitempty"`
	Designation string              `bson:"designation,omitempty" json:"designation,omitempty"`
	UserID      *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Gender values stored on employees and members.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)
