// internal/app/features/uploadcsv/csvimport/template.go
package csvimport

import "strings"

// templateExample is the single sample row shipped with the template so
// users can see the expected value formats.
var templateExample = []string{
	"EMP001", "John", "Doe", "john.doe@example.com",
	"555-0101", "1990-05-15", "Male", "Engineering", "Software Engineer",
}

// Template returns the downloadable starter CSV: the canonical header row
// and one example row.
func Template() string {
	headers := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		headers[i] = displayNames[f]
	}
	return strings.Join(headers, ",") + "\n" + strings.Join(templateExample, ",") + "\n"
}
