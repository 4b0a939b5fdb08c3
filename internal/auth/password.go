package auth

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

const minPasswordLength = 8

// ValidatePassword runs the sign-up form checks; hashing happens in the
// backend.
func ValidatePassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
