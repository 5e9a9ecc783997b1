// internal/app/features/uploadcsv/csvimport/headers.go
package csvimport

import "strings"

// Canonical import fields, in template column order.
const (
	FieldEmployeeCode = "employeeCode"
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldDateOfBirth  = "dateOfBirth"
	FieldGender       = "gender"
	FieldDepartment   = "department"
	FieldDesignation  = "designation"
)

// fieldOrder is the canonical column order for the template.
var fieldOrder = []string{
	FieldEmployeeCode, FieldFirstName, FieldLastName, FieldEmail,
	FieldPhone, FieldDateOfBirth, FieldGender, FieldDepartment, FieldDesignation,
}

// displayNames are the user-facing column names, used in the template and
// in "Missing required field" messages.
var displayNames = map[string]string{
	FieldEmployeeCode: "Employee Code",
	FieldFirstName:    "First Name",
	FieldLastName:     "Last Name",
	FieldEmail:        "Email",
	FieldPhone:        "Phone",
	FieldDateOfBirth:  "Date of Birth",
	FieldGender:       "Gender",
	FieldDepartment:   "Department",
	FieldDesignation:  "Designation",
}

// aliases maps canonical fields to the normalized header spellings we
// accept. The lowercased canonical name itself is always accepted too, so
// "EMPLOYEECODE" (which normalizes to "employeecode") also matches.
var aliases = map[string][]string{
	FieldEmployeeCode: {"employee code", "emp code", "employee id", "emp id", "employee no", "employee number", "code", "empcode"},
	FieldFirstName:    {"first name", "firstname", "fname", "given name", "first"},
	FieldLastName:     {"last name", "lastname", "lname", "surname", "family name", "last"},
	FieldEmail:        {"email", "email address", "e mail", "email id", "mail"},
	FieldPhone:        {"phone", "phone number", "mobile", "mobile number", "contact", "contact number", "telephone"},
	FieldDateOfBirth:  {"date of birth", "dob", "birth date", "birthdate", "birthday"},
	FieldGender:       {"gender", "sex"},
	FieldDepartment:   {"department", "dept", "division"},
	FieldDesignation:  {"designation", "job title", "title", "position"},
}

// headerLookup is built once from aliases plus the lowercased canonical
// names: normalized header spelling -> canonical field.
var headerLookup = func() map[string]string {
	m := make(map[string]string)
	for field, names := range aliases {
		m[strings.ToLower(field)] = field
		for _, n := range names {
			m[n] = field
		}
	}
	return m
}()

// NormalizeHeader lowercases a header cell, strips every character outside
// [a-z0-9 ], and collapses internal whitespace to single spaces.
func NormalizeHeader(h string) string {
	h = strings.ToLower(h)
	var b strings.Builder
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// MapHeader resolves one raw header cell to its canonical field. Matching
// is exact string equality against the alias set (or the canonical name),
// never fuzzy. Returns ("", false) for unrecognized headers, whose columns
// are dropped.
func MapHeader(h string) (string, bool) {
	field, ok := headerLookup[NormalizeHeader(h)]
	return field, ok
}

// mapColumns resolves a header row to a column-index -> canonical-field
// mapping, ignoring unrecognized columns.
func mapColumns(header []string) map[int]string {
	cols := make(map[int]string, len(header))
	for i, h := range header {
		if field, ok := MapHeader(h); ok {
			cols[i] = field
		}
	}
	return cols
}
