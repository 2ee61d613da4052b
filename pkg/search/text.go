package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, drops punctuation and symbols and collapses whitespace.
// Letters, digits, '_', combining marks and the Cyrillic block are kept.
// Input is composed to NFC before and after filtering so the result is stable
// under repeated application.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")
	return norm.NFC.String(collapsed)
}

// keepRune reports whether r survives normalization.
func keepRune(r rune) bool {
	switch {
	case r >= 0x0400 && r <= 0x04FF:
		return true
	case unicode.IsSpace(r):
		return true
	case r == '_':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Tokenize normalizes text and splits it into whitespace-free tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}

	parts := strings.Split(normalized, " ")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
