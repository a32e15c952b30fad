package validator

import (
	"strings"
	"unicode"
)

// passwordSymbols is the accepted punctuation set. A password must contain
// at least one of these.
const passwordSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

const minPasswordLength = 8

// CheckPassword evaluates the password policy and returns one
// ValidationError per violated rule, all against the "password" field.
func CheckPassword(password string) ValidationErrors {
	var errors ValidationErrors

	add := func(rule, message string) {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: message,
			Rule:    rule,
		})
	}

	if password != strings.TrimSpace(password) {
		add("no_whitespace", "must not start or end with whitespace")
	}
	if len(password) < minPasswordLength {
		add("min_length", "must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		add("uppercase", "must contain an uppercase letter")
	}
	if !hasLower {
		add("lowercase", "must contain a lowercase letter")
	}
	if !hasDigit {
		add("digit", "must contain a digit")
	}
	if !hasSymbol {
		add("symbol", "must contain a special character")
	}

	return errors
}
