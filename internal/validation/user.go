// Package validation contains input validators for user-supplied fields.
package validation

import (
	"errors"
	"regexp"
	"unicode"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// emailRe is a pragmatic format check, not a full RFC 5322 parser.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUsername checks length and character set constraints.
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return errors.New("username must be between 3 and 30 characters")
	}
	if !usernameRe.MatchString(username) {
		return errors.New("username may only contain letters, digits, and underscores")
	}
	return nil
}

// ValidateEmail checks that the email has a plausible format.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > 254 || !emailRe.MatchString(email) {
		return errors.New("email format is invalid")
	}
	return nil
}

// ValidatePassword enforces a minimum length and at least one letter and digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least one letter and one digit")
	}
	return nil
}
