package db

import "strings"

// IsUniqueViolation reports whether err references a unique constraint
// violation. When constraintName is given the match narrows to that
// constraint's name in the driver message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
