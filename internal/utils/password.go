package utils

import (
	"strings"
	"unicode"
)

// passwordSymbols is the fixed set of special characters a password must
// draw from.
const passwordSymbols = "@$!%*?&"

// ValidatePassword checks the password policy: at least 8 characters with
// one uppercase letter, one lowercase letter, one digit and one special
// character. It returns a human-readable message for the first rule that
// fails, or an empty string when the password is acceptable.
func ValidatePassword(password string) string {
	if len(password) < 8 {
		return "The password must be at least 8 characters."
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return "The password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character."
	}

	return ""
}
