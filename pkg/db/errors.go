package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint failure. SQLite spells it "UNIQUE constraint failed: table.column",
// Postgres "duplicate key value". When column is provided the helper also checks
// for the column text in the message.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(msg, column)
}
