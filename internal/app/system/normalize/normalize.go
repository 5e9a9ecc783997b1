// internal/app/system/normalize/normalize.go
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person's name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has a local@domain.tld shape: no whitespace,
// a single @, and at least one dot after it.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Gender maps a free-form gender value to the canonical Male/Female/Other.
// Accepted inputs (case-insensitive): male, female, other, m, f.
func Gender(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return "Male", true
	case "female", "f":
		return "Female", true
	case "other":
		return "Other", true
	}
	return "", false
}

// DateOrder controls how slash-separated dates are read. ISO dates
// (YYYY-MM-DD) are unaffected.
type DateOrder int

const (
	// MonthFirst reads A/B/YYYY as month=A, day=B (US convention).
	MonthFirst DateOrder = iota
	// DayFirst reads A/B/YYYY as day=A, month=B.
	DayFirst
)

// ParseDateOrder maps a config value ("mdy"|"dmy") to a DateOrder,
// defaulting to MonthFirst.
func ParseDateOrder(s string) DateOrder {
	if strings.EqualFold(strings.TrimSpace(s), "dmy") {
		return DayFirst
	}
	return MonthFirst
}

var slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// Date normalizes a date string to YYYY-MM-DD for storage. A valid
// YYYY-MM-DD input is the identity. A slash date A/B/YYYY is read in the
// given order; when the leading segment cannot be a month (>12) but the
// other can, the segments are swapped rather than rejected, so 15/05/1990
// normalizes to 1990-05-15 under either order. Anything else fails.
func Date(s string, order DateOrder) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), true
	}

	m := slashDateRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	month, day := a, b
	if order == DayFirst {
		month, day = b, a
	}
	if month > 12 && day <= 12 {
		month, day = day, month
	}

	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return "", false
	}
	return iso, true
}
