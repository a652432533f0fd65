// Package strings provides the whitespace helpers used when cleaning payment
// text fields.
package strings

import (
	"strings"
)

// Trimmed removes leading and trailing whitespace. A blank value yields "".
func Trimmed(value string) string {
	return strings.TrimSpace(value)
}

// WhitespaceRemoved deletes every character at or below U+0020, including
// interior spaces. IBANs and references are commonly entered in groups; this
// turns them back into their compact form.
//
// Example:
//
//	WhitespaceRemoved(" CH44 3199 9123 0008  89012")
//	// Returns: "CH4431999123000889012"
func WhitespaceRemoved(value string) string {
	if value == "" {
		return value
	}

	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] > ' ' {
			sb.WriteByte(value[i])
		}
	}
	return sb.String()
}

// SpacesCleaned trims the value and collapses runs of consecutive spaces
// into a single space.
//
// Example:
//
//	SpacesCleaned("  a   b  c ")
//	// Returns: "a b c"
func SpacesCleaned(value string) string {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "  ") {
		return value
	}

	var sb strings.Builder
	sb.Grow(len(value))
	lastWasSpace := false
	for _, r := range value {
		if r == ' ' {
			if lastWasSpace {
				continue
			}
			lastWasSpace = true
		} else {
			lastWasSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CountRunes returns the number of Unicode code points in value. Field
// length limits on payment data count characters, not bytes.
func CountRunes(value string) int {
	return len([]rune(value))
}

// Clipped shortens value to at most maxLength characters.
func Clipped(value string, maxLength int) (string, bool) {
	runes := []rune(value)
	if len(runes) <= maxLength {
		return value, false
	}
	return string(runes[:maxLength]), true
}
