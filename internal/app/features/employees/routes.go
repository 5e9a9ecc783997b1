// internal/app/features/employees/routes.go
package employees

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PolicyRoutes returns the policy-scoped subrouter, mounted under
// /policies/{policyID}/employees. uploadCSV is the bulk-import handler;
// it lives here so the import shares the policy scope.
func PolicyRoutes(h *Handler, uploadCSV http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Post("/upload_csv", uploadCSV)
	return r
}

// Routes returns the employee-scoped subrouter, mounted under /employees.
// memberRoutes serves each employee's member collection.
func Routes(h *Handler, memberRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Get("/template_csv", h.HandleTemplateCSV)
	r.Get("/{employeeID}", h.HandleGet)
	r.Patch("/{employeeID}", h.HandlePatch)
	r.Delete("/{employeeID}", h.HandleDelete)
	r.Mount("/{employeeID}/members", memberRoutes)
	return r
}
