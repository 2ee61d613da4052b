package utils

import (
	"strings"
	"unicode"
)

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '-' || r == '.' || r == '/' || r == ','
}

// StringContainsIgnoreCase checks if string contains substring case-insensitively
func StringContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// HasPrefixIgnoreCase checks if string has prefix case-insensitively
func HasPrefixIgnoreCase(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsOnlyNumbers checks if a string consists entirely of digits and separators,
// with at least one digit.
func IsOnlyNumbers(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case IsSeparator(r):
		default:
			return false
		}
	}
	return digits > 0
}

// IsValidInput checks if a query is worth running against the catalog.
// Rejects blank queries, pure numbers and repetitive keystrokes like "ааааа".
// Product codes mixing letters and digits ("BPC-157") are valid.
func IsValidInput(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}

	if IsOnlyNumbers(s) {
		return false
	}

	if IsRepetitive(s) {
		return false
	}

	return true
}

// IsRepetitive checks if a string is one rune repeated 4+ times (e.g. "aaaa", "жжжж").
func IsRepetitive(s string) bool {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= 3 {
		return false
	}

	first := unicode.ToLower(runes[0])
	for _, r := range runes[1:] {
		if unicode.ToLower(r) != first {
			return false
		}
	}
	return true
}
