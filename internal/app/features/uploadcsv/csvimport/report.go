// internal/app/features/uploadcsv/csvimport/report.go
package csvimport

// RowFailure groups every message collected for one failed row.
type RowFailure struct {
	Row      int      `json:"row"`
	Messages []string `json:"messages"`
}

// Result is the import report returned to the caller. Valid rows insert
// even when others fail; Success is true only when every row made it.
type Result struct {
	Success      bool         `json:"success"`
	TotalRows    int          `json:"total_rows"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	Errors       []RowFailure `json:"errors,omitempty"`
	BatchID      string       `json:"batch_id,omitempty"`
}

// BuildResult summarizes a validated batch. SuccessCount assumes valid rows
// will insert; the caller zeroes the report if the write itself fails.
func BuildResult(records []*Record) Result {
	res := Result{TotalRows: len(records)}
	for _, rec := range records {
		if rec.Valid() {
			res.SuccessCount++
			continue
		}
		res.FailedCount++
		res.Errors = append(res.Errors, RowFailure{Row: rec.Row, Messages: rec.Errors})
	}
	res.Success = res.FailedCount == 0
	return res
}

// ValidRecords filters a batch down to the rows that passed every check.
func ValidRecords(records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		if rec.Valid() {
			out = append(out, rec)
		}
	}
	return out
}
