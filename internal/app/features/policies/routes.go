// internal/app/features/policies/routes.go
package policies

import "github.com/go-chi/chi/v5"

// Routes returns the /policies subrouter. employeeRoutes serves each
// policy's employee collection (list, create, bulk import).
func Routes(h *Handler, employeeRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{policyID}", h.HandleGet)
	r.Mount("/{policyID}/employees", employeeRoutes)
	return r
}
