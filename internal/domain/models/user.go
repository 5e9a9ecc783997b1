// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a login identity: an HR manager or an employee who can
// sign in to manage their own dependents.
//
// NOTE:
//   - Employee data is not embedded on User. A member-role user is linked
//     to their employee record via EmployeeID, and the employees collection
//     carries the reverse user_id link.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name" json:"full_name"`
	Email        string              `bson:"email" json:"email"` // lowercased, unique
	PasswordHash string              `bson:"password_hash,omitempty" json:"-"`
	Role         string              `bson:"role" json:"role"` // manager | member
	Status       string              `bson:"status,omitempty" json:"status,omitempty"`
	EmployeeID   *primitive.ObjectID `bson:"employee_id,omitempty" json:"employee_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
