// internal/app/features/employees/template.go
package employees

import (
	"net/http"

	"github.com/dalemusser/enrollhub/internal/app/features/uploadcsv/csvimport"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
)

// HandleTemplateCSV handles GET /employees/template_csv: the starter file
// for bulk import, one header row plus one example row.
func (h *Handler) HandleTemplateCSV(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can download the import template.")
	if !res.OK {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="employee_import_template.csv"`)
	_, _ = w.Write([]byte(csvimport.Template()))
}
