package store

import "errors"

// MinPasswordLength is the shortest password Register and password changes
// accept.
const MinPasswordLength = 6

var (
	// ErrBlankField is returned when a required registration field is empty.
	ErrBlankField = errors.New("all fields are required")

	// ErrPasswordTooShort is returned when a password is below the minimum
	// length.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)

// ValidateRegistration checks registration input. It does NOT check
// username/email uniqueness — that is enforced by the database constraints.
func ValidateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return ErrBlankField
	}
	return ValidatePassword(password)
}

// ValidatePassword checks the password length policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
