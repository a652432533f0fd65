package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCharacters is returned when a value is too short for a MOD 97 checksum.
	ErrInsufficientCharacters = errors.New("insufficient characters for checksum calculation")
	// ErrInvalidCharacter is returned when a value contains a character the checksum cannot map.
	ErrInvalidCharacter = errors.New("invalid character in reference")
	// ErrReferenceTooLong is returned when a raw reference exceeds the maximum length.
	ErrReferenceTooLong = errors.New("reference number is too long")
)

// mod10Table is the carry table of the recursive MOD 10 algorithm.
var mod10Table = [10]int{0, 9, 4, 6, 8, 2, 7, 1, 3, 5}

// Mod97 computes the ISO 7064 MOD 97-10 remainder of value after moving its
// first four characters to the end. Letters map to 10..35 regardless of case.
// A value carrying valid check digits yields 1.
func Mod97(value string) (int, error) {
	if len(value) < 5 {
		return 0, ErrInsufficientCharacters
	}

	rearranged := value[4:] + value[:4]
	sum := 0
	for i := 0; i < len(rearranged); i++ {
		ch := rearranged[i]
		switch {
		case ch >= '0' && ch <= '9':
			sum = sum*10 + int(ch-'0')
		case ch >= 'A' && ch <= 'Z':
			sum = sum*100 + int(ch-'A') + 10
		case ch >= 'a' && ch <= 'z':
			sum = sum*100 + int(ch-'a') + 10
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidCharacter, ch)
		}
		if sum > 9999999 {
			sum %= 97
		}
	}

	return sum % 97, nil
}

// Mod10 computes the check digit of the recursive MOD 10 algorithm over a
// string of decimal digits. A digit string ending in its correct check digit
// yields 0.
func Mod10(digits string) (int, error) {
	carry := 0
	for i := 0; i < len(digits); i++ {
		ch := digits[i]
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCharacter, ch)
		}
		carry = mod10Table[(carry+int(ch-'0'))%10]
	}
	return (10 - carry) % 10, nil
}

func hasValidMod97CheckDigits(value string) bool {
	remainder, err := Mod97(value)
	return err == nil && remainder == 1
}

// IsNumeric reports whether value consists of ASCII digits only.
// The empty string is numeric.
func IsNumeric(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// IsAlpha reports whether value consists of ASCII letters only.
func IsAlpha(value string) bool {
	for i := 0; i < len(value); i++ {
		if !isLetter(value[i]) {
			return false
		}
	}
	return true
}

// IsAlphaNumeric reports whether value consists of ASCII letters and digits only.
func IsAlphaNumeric(value string) bool {
	for i := 0; i < len(value); i++ {
		if !isLetter(value[i]) && !isDigit(value[i]) {
			return false
		}
	}
	return true
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
