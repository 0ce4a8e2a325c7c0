package utils

import (
	"regexp"
	"strings"
)

// FormatPhoneNumber normalizes a phone number to digits with the Nepal
// country code prefix.
func FormatPhoneNumber(phoneNumber string) string {
	re := regexp.MustCompile(`\D`)
	digits := re.ReplaceAllString(phoneNumber, "")

	if len(digits) > 0 && !strings.HasPrefix(digits, "977") {
		digits = strings.TrimLeft(digits, "0")
		digits = "977" + digits
	}

	return digits
}

// ValidatePhoneNumber accepts 10-digit Nepali mobile numbers (97x/98x).
func ValidatePhoneNumber(phoneNumber string) bool {
	re := regexp.MustCompile(`\D`)
	cleaned := re.ReplaceAllString(phoneNumber, "")
	cleaned = strings.TrimPrefix(cleaned, "977")

	if len(cleaned) != 10 {
		return false
	}

	return strings.HasPrefix(cleaned, "97") || strings.HasPrefix(cleaned, "98")
}
