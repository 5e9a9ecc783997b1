// internal/app/features/uploadcsv/csvimport/csvimport_test.go
package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
)

func parseString(t *testing.T, raw string) []*Record {
	t.Helper()
	recs, err := Parse(strings.NewReader(raw), Options{DateOrder: normalize.MonthFirst})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return recs
}

func TestParseHappyPath(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Phone,Date of Birth,Gender,Department,Designation\n"+
		"EMP001,John,Doe,john.doe@example.com,555-0101,1990-05-15,Male,Engineering,Software Engineer\n")

	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec := recs[0]
	if !rec.Valid() {
		t.Fatalf("unexpected errors: %v", rec.Errors)
	}
	if rec.Row != 2 {
		t.Errorf("Row = %d, want 2", rec.Row)
	}
	if rec.EmployeeCode != "EMP001" || rec.Email != "john.doe@example.com" || rec.Gender != "Male" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestParseHeaderAliases(t *testing.T) {
	cases := []struct {
		header string
		field  string
	}{
		{"Employee Code", FieldEmployeeCode},
		{"employee_code", FieldEmployeeCode},
		{"EMPLOYEECODE", FieldEmployeeCode},
		{"  Employee   Code  ", FieldEmployeeCode},
		{"Emp Code", FieldEmployeeCode},
		{"DOB", FieldDateOfBirth},
		{"Birth Date", FieldDateOfBirth},
		{"E-Mail", FieldEmail},
		{"Surname", FieldLastName},
		{"fname", FieldFirstName},
		{"Mobile Number", FieldPhone},
		{"Sex", FieldGender},
		{"Dept", FieldDepartment},
		{"Job Title", FieldDesignation},
	}
	for _, tc := range cases {
		field, ok := MapHeader(tc.header)
		if !ok || field != tc.field {
			t.Errorf("MapHeader(%q) = (%q, %v), want (%q, true)", tc.header, field, ok, tc.field)
		}
	}
	if _, ok := MapHeader("Shoe Size"); ok {
		t.Error("MapHeader accepted an unknown header")
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Employee Code":      "employee code",
		"employee_code":      "employee code",
		"EMPLOYEE-CODE":      "employee code",
		"  First   Name\t":   "first name",
		"Date.of.Birth":      "date of birth",
		"EMPLOYEECODE":       "employeecode",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseAccumulatesAllRowErrors(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP001,John,,not-an-email,junk,Robot\n")

	rec := recs[0]
	want := []string{
		"Row 2: Missing required field 'Last Name'",
		"Row 2: Invalid email format 'not-an-email'",
		"Row 2: Invalid date format 'junk'. Use YYYY-MM-DD",
		"Row 2: Invalid gender 'Robot'. Use Male, Female, or Other",
	}
	if len(rec.Errors) != len(want) {
		t.Fatalf("errors = %v, want %v", rec.Errors, want)
	}
	for i, msg := range want {
		if rec.Errors[i] != msg {
			t.Errorf("errors[%d] = %q, want %q", i, rec.Errors[i], msg)
		}
	}
}

func TestParseRowNumbersSkipBlankLines(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"\n"+
		"EMP001,John,Doe,j@x.com,1990-01-02,Male\n"+
		"\n"+
		"EMP002,Jane,Doe,jane@x.com,1991-03-04,Female\n")

	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].Row != 2 || recs[1].Row != 3 {
		t.Errorf("rows = %d, %d; want 2, 3", recs[0].Row, recs[1].Row)
	}
}

func TestParseNormalizesSlashDates(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP001,John,Doe,j@x.com,15/05/1990,Male\n"+
		"EMP002,Jane,Doe,jane@x.com,05/15/1990,Female\n")

	for i, rec := range recs {
		if !rec.Valid() {
			t.Fatalf("row %d errors: %v", i, rec.Errors)
		}
		if rec.DateOfBirth != "1990-05-15" {
			t.Errorf("row %d DateOfBirth = %q, want 1990-05-15", i, rec.DateOfBirth)
		}
	}
}

func TestParseNoData(t *testing.T) {
	_, err := Parse(strings.NewReader("Employee Code,First Name\n"), Options{})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("header-only err = %v, want ErrNoData", err)
	}
	_, err = Parse(strings.NewReader(""), Options{})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("empty err = %v, want ErrNoData", err)
	}
}

func TestParseUnrecognizedHeaderDropsEveryColumn(t *testing.T) {
	recs := parseString(t, "Foo,Bar,Baz\n1,2,3\n")

	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Valid() {
		t.Fatal("row with no mapped columns should fail validation")
	}
	want := []string{
		"Row 2: Missing required field 'Employee Code'",
		"Row 2: Missing required field 'First Name'",
		"Row 2: Missing required field 'Last Name'",
		"Row 2: Missing required field 'Email'",
	}
	if len(rec.Errors) != len(want) {
		t.Fatalf("errors = %v, want %v", rec.Errors, want)
	}
	for i, msg := range want {
		if rec.Errors[i] != msg {
			t.Errorf("errors[%d] = %q, want %q", i, rec.Errors[i], msg)
		}
	}
}

func TestParseOptionalColumnsMayBeAbsent(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email\n"+
		"EMP001,John,Doe,bad-email\n"+
		"EMP002,Jane,Doe,jane@x.com\n")

	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	want := "Row 2: Invalid email format 'bad-email'"
	if len(recs[0].Errors) != 1 || recs[0].Errors[0] != want {
		t.Errorf("errors = %v, want exactly [%q]", recs[0].Errors, want)
	}
	if !recs[1].Valid() {
		t.Errorf("row without phone/dob/gender flagged: %v", recs[1].Errors)
	}
}

func TestParseMaxRows(t *testing.T) {
	raw := "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n" +
		"EMP001,A,B,a@x.com,1990-01-01,Male\n" +
		"EMP002,C,D,c@x.com,1990-01-01,Male\n"
	_, err := Parse(strings.NewReader(raw), Options{MaxRows: 1})
	if !errors.Is(err, ErrTooManyRows) {
		t.Errorf("err = %v, want ErrTooManyRows", err)
	}
}

func TestParseRaggedRows(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP001,John\n")

	rec := recs[0]
	if rec.EmployeeCode != "EMP001" || rec.FirstName != "John" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Valid() {
		t.Error("short row should be missing required fields")
	}
}

func TestParseStripsBOM(t *testing.T) {
	recs := parseString(t, "\uFEFF"+"Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP001,John,Doe,j@x.com,1990-01-01,Male\n")
	if !recs[0].Valid() {
		t.Errorf("unexpected errors: %v", recs[0].Errors)
	}
}

func TestMarkExistingCodes(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP009,John,Doe,j@x.com,1990-01-01,Male\n"+
		"emp009,Jane,Doe,jane@x.com,1991-01-01,Female\n"+
		"EMP010,Jim,Doe,jim@x.com,1992-01-01,Male\n")

	MarkExistingCodes(recs, map[string]bool{"emp009": true})

	for i := 0; i < 2; i++ {
		want := "Employee code '" + recs[i].EmployeeCode + "' already exists"
		if len(recs[i].Errors) != 1 || recs[i].Errors[0] != want {
			t.Errorf("row %d errors = %v, want [%q]", i, recs[i].Errors, want)
		}
	}
	if !recs[2].Valid() {
		t.Errorf("EMP010 flagged unexpectedly: %v", recs[2].Errors)
	}
}

func TestMarkExistingCodesInFileDuplicates(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP001,John,Doe,j@x.com,1990-01-01,Male\n"+
		"EMP001,Jane,Doe,jane@x.com,1991-01-01,Female\n")

	MarkExistingCodes(recs, nil)

	if !recs[0].Valid() {
		t.Errorf("first occurrence flagged: %v", recs[0].Errors)
	}
	if recs[1].Valid() {
		t.Error("repeated code not flagged")
	}
}

func TestMarkExistingCodesIgnoresFailedRows(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email\n"+
		"EMP123,John,Doe,bad-email\n"+
		"EMP123,Jane,Doe,jane@x.com\n")

	if got := Codes(recs); len(got) != 1 || got[0] != "emp123" {
		t.Fatalf("Codes = %v, want [emp123]", got)
	}
	MarkExistingCodes(recs, nil)

	// The failed first row never inserts, so its code must not block the
	// valid second row.
	if !recs[1].Valid() {
		t.Errorf("valid row flagged as duplicate of a failed row: %v", recs[1].Errors)
	}
	if recs[0].Valid() {
		t.Error("bad-email row unexpectedly valid")
	}
}

func TestBuildResult(t *testing.T) {
	recs := parseString(t, "Employee Code,First Name,Last Name,Email,Date of Birth,Gender\n"+
		"EMP001,John,Doe,j@x.com,1990-01-01,Male\n"+
		",Jane,Doe,jane@x.com,1991-01-01,Female\n")

	res := BuildResult(recs)
	if res.Success {
		t.Error("Success should be false with a failed row")
	}
	if res.TotalRows != 2 || res.SuccessCount != 1 || res.FailedCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", res.TotalRows, res.SuccessCount, res.FailedCount)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 3 {
		t.Errorf("errors = %+v", res.Errors)
	}
}

func TestTemplate(t *testing.T) {
	lines := strings.Split(strings.TrimRight(Template(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("template has %d lines, want 2", len(lines))
	}
	wantHeader := "Employee Code,First Name,Last Name,Email,Phone,Date of Birth,Gender,Department,Designation"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if got := len(strings.Split(lines[1], ",")); got != 9 {
		t.Errorf("example row has %d columns, want 9", got)
	}
	// The example row must survive a round trip through the parser.
	recs := parseString(t, Template())
	if len(recs) != 1 || !recs[0].Valid() {
		t.Errorf("template does not parse cleanly: %+v", recs)
	}
}
