package types

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	indianPhonePattern = regexp.MustCompile(`^(\+91\s?)?[6-9]\d{9}$`)
	pincodePattern     = regexp.MustCompile(`^\d{6}$`)
)

// IsIndianPhone accepts a 10 digit mobile number starting 6-9, optionally
// prefixed with +91.
func IsIndianPhone(value string) bool {
	return indianPhonePattern.MatchString(strings.TrimSpace(value))
}

// IsPincode accepts a 6 digit postal code.
func IsPincode(value string) bool {
	return pincodePattern.MatchString(strings.TrimSpace(value))
}

// IsStrongPassword requires 8+ characters with upper, lower and a digit.
func IsStrongPassword(value string) bool {
	if len(value) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

var strengthLabels = []string{"Very Weak", "Weak", "Fair", "Good", "Strong"}

// PasswordStrength scores a password from 0 to 4.
func PasswordStrength(value string) (int, string) {
	score := 0
	if len(value) >= 8 {
		score++
	}
	if len(value) >= 12 {
		score++
	}
	var upper, lower, digit, symbol bool
	for _, r := range value {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	if upper && lower {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}
	score = min(score, 4)
	return score, strengthLabels[score]
}
