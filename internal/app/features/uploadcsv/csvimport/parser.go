// internal/app/features/uploadcsv/csvimport/parser.go
package csvimport

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
)

// ErrNoData is returned when the file has a header but no data rows, or no
// rows at all.
var ErrNoData = errors.New("csv file contains no data rows")

// Record is one parsed data row. Row counts from 2, since row 1 is the
// header, so numbers match what a user sees in a spreadsheet. Errors
// accumulates every validation failure
// for the row; a record inserts only when Errors stays empty.
type Record struct {
	Row int

	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DateOfBirth  string
	Gender       string
	Department   string
	Designation  string

	Errors []string
}

// Valid reports whether the record passed every check so far.
func (r *Record) Valid() bool { return len(r.Errors) == 0 }

// AddError appends a row-prefixed validation message.
func (r *Record) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Options tunes parsing. DateOrder controls how ambiguous slash dates are
// read; MaxRows caps the number of data rows (0 means no cap).
type Options struct {
	DateOrder normalize.DateOrder
	MaxRows   int
}

// ErrTooManyRows is returned when the file exceeds Options.MaxRows.
var ErrTooManyRows = errors.New("csv file exceeds the maximum row count")

// Parse reads an entire CSV stream and returns one Record per non-blank
// data row, each carrying any validation errors it accumulated. Ragged rows
// are tolerated: short rows leave trailing columns empty, long rows drop
// the extras. Header cells that match no known column drop that column; a
// header matching nothing at all just leaves every field blank, so the
// rows fail with missing-field errors in the report. Parse never fails on
// bad cell values — those become row errors — only on an unreadable stream
// or a file with no data rows.
func Parse(src io.Reader, opts Options) ([]*Record, error) {
	rd := csv.NewReader(src)
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true
	rd.TrimLeadingSpace = true

	var (
		cols    map[int]string
		records []*Record
		line    int
	)
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\uFEFF")
		}
		if isBlank(row) {
			continue
		}
		if cols == nil {
			cols = mapColumns(row)
			continue
		}
		if opts.MaxRows > 0 && len(records) >= opts.MaxRows {
			return nil, ErrTooManyRows
		}
		// Data rows are numbered from 2 (the header is row 1), skipping
		// blank lines, so numbers line up with what a spreadsheet shows.
		rec := extract(row, cols, len(records)+2)
		validate(rec, opts.DateOrder)
		records = append(records, rec)
	}
	if cols == nil || len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}

// extract copies mapped columns into a Record, trimming whitespace from
// every cell.
func extract(row []string, cols map[int]string, line int) *Record {
	rec := &Record{Row: line}
	for i, cell := range row {
		field, ok := cols[i]
		if !ok {
			continue
		}
		cell = strings.TrimSpace(cell)
		switch field {
		case FieldEmployeeCode:
			rec.EmployeeCode = cell
		case FieldFirstName:
			rec.FirstName = cell
		case FieldLastName:
			rec.LastName = cell
		case FieldEmail:
			rec.Email = cell
		case FieldPhone:
			rec.Phone = cell
		case FieldDateOfBirth:
			rec.DateOfBirth = cell
		case FieldGender:
			rec.Gender = cell
		case FieldDepartment:
			rec.Department = cell
		case FieldDesignation:
			rec.Designation = cell
		}
	}
	return rec
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
