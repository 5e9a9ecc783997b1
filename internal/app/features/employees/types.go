// internal/app/features/employees/types.go
package employees

import (
	"time"

	"github.com/dalemusser/enrollhub/internal/domain/models"
)

type createRequest struct {
	Code        string `json:"code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// patchRequest distinguishes "field omitted" (nil, leave unchanged) from
// "field present but empty" (clear, for the optional fields).
type patchRequest struct {
	Code        *string `json:"code"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
}

type employeeResponse struct {
	ID          string `json:"id"`
	PolicyID    string `json:"policy_id"`
	Code        string `json:"code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toResponse(e models.Employee) employeeResponse {
	out := employeeResponse{
		ID:          e.ID.Hex(),
		PolicyID:    e.PolicyID.Hex(),
		Code:        e.Code,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Phone:       e.Phone,
		DateOfBirth: e.DateOfBirth,
		Gender:      e.Gender,
		Department:  e.Department,
		Designation: e.Designation,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.UserID != nil {
		out.UserID = e.UserID.Hex()
	}
	return out
}

type listResponse struct {
	Employees []employeeResponse `json:"employees"`
	// NextAfter is the cursor for the next page: the last code on this
	// page, empty when there are no more rows.
	NextAfter string `json:"next_after,omitempty"`
}
