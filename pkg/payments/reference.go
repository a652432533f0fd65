package payments

import (
	"fmt"
	"strings"

	strutil "qrbill/pkg/platform/strings"
)

const (
	qrReferenceLength        = 27
	maxISO11649Length        = 25
	maxRawISO11649Length     = maxISO11649Length - 4
	qrReferencePaddingLength = qrReferenceLength - 1
)

// IsValidISO11649Reference reports whether reference is a valid creditor
// reference: "RF", two check digits and up to 21 alphanumeric characters.
// Whitespace is ignored.
func IsValidISO11649Reference(reference string) bool {
	reference = strutil.WhitespaceRemoved(reference)

	if len(reference) < 5 || len(reference) > maxISO11649Length {
		return false
	}
	if !IsAlphaNumeric(reference) {
		return false
	}
	if reference[0] != 'R' || reference[1] != 'F' {
		return false
	}
	if !isDigit(reference[2]) || !isDigit(reference[3]) {
		return false
	}

	return hasValidMod97CheckDigits(reference)
}

// CreateISO11649Reference builds a creditor reference from the raw reference
// by prefixing "RF" and the two check digits.
func CreateISO11649Reference(rawReference string) (string, error) {
	raw := strutil.WhitespaceRemoved(rawReference)
	if len(raw) > maxRawISO11649Length {
		return "", ErrReferenceTooLong
	}

	remainder, err := Mod97("RF00" + raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RF%02d%s", 98-remainder, raw), nil
}

// IsValidQRReference reports whether reference consists of exactly 27 digits
// whose last digit is the MOD 10 check digit. Whitespace is ignored.
func IsValidQRReference(reference string) bool {
	reference = strutil.WhitespaceRemoved(reference)

	if !IsNumeric(reference) || len(reference) != qrReferenceLength {
		return false
	}

	check, err := Mod10(reference)
	return err == nil && check == 0
}

// CreateQRReference builds a QR reference from up to 26 raw digits by
// left-padding them with zeros and appending the check digit.
func CreateQRReference(rawReference string) (string, error) {
	raw := strutil.WhitespaceRemoved(rawReference)
	if !IsNumeric(raw) {
		return "", fmt.Errorf("%w: digits allowed only", ErrInvalidCharacter)
	}
	if len(raw) > qrReferencePaddingLength {
		return "", ErrReferenceTooLong
	}

	check, err := Mod10(raw)
	if err != nil {
		return "", err
	}
	return strings.Repeat("0", qrReferencePaddingLength-len(raw)) + raw + string(rune('0'+check)), nil
}

// FormatQRReference groups the reference in blocks of five digits counted
// from the right.
//
// Example:
//
//	FormatQRReference("210000000003139471430009017")
//	// Returns: "21 00000 00003 13947 14300 09017"
func FormatQRReference(reference string) string {
	var sb strings.Builder
	sb.Grow(len(reference) + len(reference)/5)

	for t := 0; t < len(reference); {
		n := t + (len(reference)-t-1)%5 + 1
		if t != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(reference[t:n])
		t = n
	}
	return sb.String()
}

// FormatReference formats a reference for display. QR references are grouped
// from the right in blocks of five, creditor references from the left in
// blocks of four. Any other value is returned unchanged.
func FormatReference(referenceType, reference string) string {
	reference = strutil.Trimmed(reference)
	switch referenceType {
	case "QRR":
		return FormatQRReference(reference)
	case "SCOR":
		return FormatIBAN(reference)
	default:
		return reference
	}
}
