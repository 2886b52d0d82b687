package types

import "time"

const dateLayout = "2006-01-02"

// ValidDate reports whether value is a calendar date in "YYYY-MM-DD" form.
func ValidDate(value string) bool {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return false
	}
	return parsed.Format(dateLayout) == value
}
