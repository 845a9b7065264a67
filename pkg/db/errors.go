package db

import "strings"

// IsUniqueViolation reports whether the error references a Postgres unique
// violation, optionally scoped to a named constraint (admin emails are the
// only unique column in this schema). Matching is textual so it works across
// both the pgx and pq drivers.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
