// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// EmployeeRoutes returns the employee-scoped subrouter, mounted under
// /employees/{employeeID}/members.
func EmployeeRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	return r
}

// Routes returns the member-scoped subrouter, mounted under /members.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{memberID}", h.HandleGet)
	r.Patch("/{memberID}", h.HandlePatch)
	r.Delete("/{memberID}", h.HandleDelete)
	return r
}
