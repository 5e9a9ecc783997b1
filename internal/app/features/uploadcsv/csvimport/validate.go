// internal/app/features/uploadcsv/csvimport/validate.go
package csvimport

import (
	"fmt"
	"strings"

	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
)

// requiredFields must be non-empty on every row. Everything else (phone,
// date of birth, gender, department, designation) may be left blank.
var requiredFields = []string{
	FieldEmployeeCode, FieldFirstName, FieldLastName, FieldEmail,
}

// validate runs every check on a record and accumulates all failures, so a
// row with a bad email and a bad date reports both. Normalized values
// (canonical gender casing, ISO dates) are written back into the record.
func validate(rec *Record, order normalize.DateOrder) {
	for _, field := range requiredFields {
		if value(rec, field) == "" {
			rec.AddError(fmt.Sprintf("Row %d: Missing required field '%s'", rec.Row, displayNames[field]))
		}
	}

	if rec.Email != "" {
		if !normalize.ValidEmail(rec.Email) {
			rec.AddError(fmt.Sprintf("Row %d: Invalid email format '%s'", rec.Row, rec.Email))
		} else {
			rec.Email = normalize.Email(rec.Email)
		}
	}

	if rec.DateOfBirth != "" {
		iso, ok := normalize.Date(rec.DateOfBirth, order)
		if !ok {
			rec.AddError(fmt.Sprintf("Row %d: Invalid date format '%s'. Use YYYY-MM-DD", rec.Row, rec.DateOfBirth))
		} else {
			rec.DateOfBirth = iso
		}
	}

	if rec.Gender != "" {
		g, ok := normalize.Gender(rec.Gender)
		if !ok {
			rec.AddError(fmt.Sprintf("Row %d: Invalid gender '%s'. Use Male, Female, or Other", rec.Row, rec.Gender))
		} else {
			rec.Gender = g
		}
	}
}

// MarkExistingCodes flags every row whose employee code is already taken.
// The existing set is keyed by casefolded code, as returned by the store's
// duplicate query. Rows that repeat the code of an earlier valid row in the
// same file are flagged too, since inserting them would collide. Rows
// already failed by field validation are skipped: they never insert, so
// their codes must not block a later valid row.
func MarkExistingCodes(records []*Record, existing map[string]bool) {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if !rec.Valid() || rec.EmployeeCode == "" {
			continue
		}
		key := strings.ToLower(rec.EmployeeCode)
		if existing[key] || seen[key] {
			rec.AddError(fmt.Sprintf("Employee code '%s' already exists", rec.EmployeeCode))
			continue
		}
		seen[key] = true
	}
}

// Codes returns the casefolded employee codes of rows that passed field
// validation, for the bulk duplicate lookup. Failed rows are excluded for
// the same reason MarkExistingCodes skips them.
func Codes(records []*Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Valid() && rec.EmployeeCode != "" {
			out = append(out, strings.ToLower(rec.EmployeeCode))
		}
	}
	return out
}

func value(rec *Record, field string) string {
	switch field {
	case FieldEmployeeCode:
		return rec.EmployeeCode
	case FieldFirstName:
		return rec.FirstName
	case FieldLastName:
		return rec.LastName
	case FieldEmail:
		return rec.Email
	case FieldPhone:
		return rec.Phone
	case FieldDateOfBirth:
		return rec.DateOfBirth
	case FieldGender:
		return rec.Gender
	case FieldDepartment:
		return rec.Department
	case FieldDesignation:
		return rec.Designation
	}
	return ""
}
