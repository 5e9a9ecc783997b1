// internal/app/features/uploadcsv/upload.go
package uploadcsv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	apierrors "github.com/dalemusser/enrollhub/internal/app/features/errors"
	"github.com/dalemusser/enrollhub/internal/app/features/uploadcsv/csvimport"
	"github.com/dalemusser/enrollhub/internal/app/store/audit"
	"github.com/dalemusser/enrollhub/internal/app/system/auditlog"
	"github.com/dalemusser/enrollhub/internal/app/system/gates"
	"github.com/dalemusser/enrollhub/internal/app/system/timeouts"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUpload handles POST /policies/{policyID}/employees/upload_csv.
//
// The file arrives as multipart form field "file". Rows that pass every
// check insert as employee + self member pairs in one transaction; rows
// that fail become report entries. Per-row problems never fail the HTTP
// request — only an empty file or a store fault does.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireManager(w, r, "Only managers can import employees.")
	if !res.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "uploadcsv")
	defer cancel()

	policyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "policyID"))
	if err != nil {
		apierrors.RenderNotFound(w, r, "Policy not found.")
		return
	}
	p, err := h.Policies.GetByID(ctx, policyID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "uploadcsv: policy lookup failed", err, "")
		return
	}
	if p == nil || p.ManagerID != res.UserID {
		apierrors.RenderNotFound(w, r, "Policy not found.")
		return
	}

	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	// Stages 1-3: parse, map headers, validate rows.
	records, err := csvimport.Parse(file, csvimport.Options{
		DateOrder: h.Cfg.DateOrder,
		MaxRows:   h.Cfg.MaxRows,
	})
	if err != nil {
		switch {
		case errors.Is(err, csvimport.ErrNoData):
			apierrors.RenderEmptyPayload(w, r, "The file contains no data rows.")
		case errors.Is(err, csvimport.ErrTooManyRows):
			apierrors.RenderBadRequest(w, r, fmt.Sprintf("The file exceeds the limit of %d rows.", h.Cfg.MaxRows))
		default:
			apierrors.RenderBadRequest(w, r, "The file could not be read as CSV.")
		}
		return
	}

	// Stage 4: one bulk lookup of every candidate code against the policy.
	existing, err := h.Employees.ExistingCodes(ctx, policyID, csvimport.Codes(records))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "uploadcsv: duplicate check failed", err, "")
		return
	}
	csvimport.MarkExistingCodes(records, existing)

	// Stage 5: insert the surviving rows in one transaction.
	valid := csvimport.ValidRecords(records)
	if len(valid) > 0 {
		entries := make([]models.Employee, 0, len(valid))
		for _, rec := range valid {
			entries = append(entries, models.Employee{
				PolicyID:    policyID,
				Code:        rec.EmployeeCode,
				FirstName:   rec.FirstName,
				LastName:    rec.LastName,
				Email:       rec.Email,
				Phone:       rec.Phone,
				DateOfBirth: rec.DateOfBirth,
				Gender:      rec.Gender,
				Department:  rec.Department,
				Designation: rec.Designation,
			})
		}
		if _, err := h.Employees.CreateBatchWithSelf(ctx, entries, &res.UserID); err != nil {
			h.ErrLog.LogServerError(w, r, "uploadcsv: batch insert failed", err,
				"The import could not be saved; no rows were added.")
			return
		}
	}

	result := csvimport.BuildResult(records)
	result.BatchID = uuid.NewString()

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: "employees_imported",
		Success:   result.Success,
		ActorID:   &res.UserID,
		PolicyID:  &policyID,
		IP:        auditlog.ClientIP(r),
		Details: map[string]string{
			"batch_id":      result.BatchID,
			"total_rows":    strconv.Itoa(result.TotalRows),
			"success_count": strconv.Itoa(result.SuccessCount),
			"failed_count":  strconv.Itoa(result.FailedCount),
		},
	})
	h.Log.Info("csv import finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("success_count", result.SuccessCount),
		zap.Int("failed_count", result.FailedCount),
	)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(result)
}

// openUpload pulls the "file" part out of the multipart form, enforcing
// the body size cap. Renders the error response itself on failure.
func (h *Handler) openUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxBodySize)
	if err := r.ParseMultipartForm(h.Cfg.MaxBodySize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.RenderBadRequest(w, r, "The file is too large.")
			return nil, false
		}
		apierrors.RenderBadRequest(w, r, "Expected a multipart form with a 'file' field.")
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Expected a CSV file in the 'file' field.")
		return nil, false
	}
	return file, true
}
