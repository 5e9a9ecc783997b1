// internal/app/features/members/types.go
package members

import (
	"time"

	"github.com/dalemusser/enrollhub/internal/domain/models"
)

type createRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	Relationship string `json:"relationship"`
}

// patchRequest follows the same convention as employee patches: nil means
// leave unchanged. Relationship is fixed at creation and has no patch
// field.
type patchRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
}

type memberResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Relationship string `json:"relationship"`
	CreatedAt    string `json:"created_at"`
}

func toResponse(m models.Member) memberResponse {
	return memberResponse{
		ID:           m.ID.Hex(),
		EmployeeID:   m.EmployeeID.Hex(),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		DateOfBirth:  m.DateOfBirth,
		Gender:       m.Gender,
		Relationship: m.Relationship,
		CreatedAt:    m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type listResponse struct {
	Members []memberResponse `json:"members"`
}
