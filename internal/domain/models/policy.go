// internal/domain/models/policy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy is a company's group insurance policy. It is the tenancy boundary
// for employee codes: a code is unique within one policy, not globally.
type Policy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number      string             `bson:"number" json:"number"`
	Name        string             `bson:"name" json:"name"`
	CompanyName string             `bson:"company_name" json:"company_name"`
	ManagerID   primitive.ObjectID `bson:"manager_id" json:"manager_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
