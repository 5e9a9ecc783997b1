// internal/app/features/policies/types.go
package policies

import (
	"time"

	"github.com/dalemusser/enrollhub/internal/domain/models"
)

type createRequest struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
}

type policyResponse struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	ManagerID   string `json:"manager_id"`
	CreatedAt   string `json:"created_at"`
}

func toResponse(p models.Policy) policyResponse {
	return policyResponse{
		ID:          p.ID.Hex(),
		Number:      p.Number,
		Name:        p.Name,
		CompanyName: p.CompanyName,
		ManagerID:   p.ManagerID.Hex(),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type listResponse struct {
	Policies []policyResponse `json:"policies"`
}
