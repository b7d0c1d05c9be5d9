package common

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
	kenyanPhone   = regexp.MustCompile(`^254\d{9}$`)
)

// InvalidPhoneError reports a phone number that could not be normalized.
// It carries the original input for diagnostics.
type InvalidPhoneError struct {
	Phone string
}

func (e *InvalidPhoneError) Error() string {
	return fmt.Sprintf("invalid Kenyan phone number: %q (expected e.g. +254 797 030 300, 0797030300)", e.Phone)
}

// NormalizePhone converts any accepted Kenyan phone representation to the
// canonical 254XXXXXXXXX form (12 digits). Accepted inputs:
//
//	+254797030300, 254797030300, 0797030300, 797030300
//
// with spaces, dashes or parentheses anywhere. Anything else fails with an
// InvalidPhoneError.
func NormalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", &InvalidPhoneError{Phone: phone}
	}

	cleaned := nonPhoneChars.ReplaceAllString(phone, "")
	cleaned = strings.TrimPrefix(cleaned, "+")

	var normalized string
	switch {
	case strings.HasPrefix(cleaned, "254"):
		normalized = cleaned
	case strings.HasPrefix(cleaned, "0"):
		normalized = "254" + cleaned[1:]
	case len(cleaned) == 9:
		normalized = "254" + cleaned
	default:
		return "", &InvalidPhoneError{Phone: phone}
	}

	if !kenyanPhone.MatchString(normalized) {
		return "", &InvalidPhoneError{Phone: phone}
	}

	return normalized, nil
}
