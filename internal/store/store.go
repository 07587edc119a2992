package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a username or email is already taken.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username or a wrong password. The two causes are deliberately not
	// distinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// isUniqueConstraintError reports whether err is a uniqueness violation from
// any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
