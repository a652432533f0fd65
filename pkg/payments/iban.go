// Package payments implements the checksum and formatting rules of Swiss
// payment identifiers: IBANs, QR-IBANs, QR references and ISO 11649 creditor
// references.
package payments

import (
	"strings"

	strutil "qrbill/pkg/platform/strings"
)

// IsValidIBAN reports whether iban is a syntactically valid IBAN with correct
// check digits. Whitespace is ignored. The country specific length is not
// checked.
func IsValidIBAN(iban string) bool {
	iban = strutil.WhitespaceRemoved(iban)

	if len(iban) < 5 || !IsAlphaNumeric(iban) {
		return false
	}
	if !isLetter(iban[0]) || !isLetter(iban[1]) {
		return false
	}
	if !isDigit(iban[2]) || !isDigit(iban[3]) {
		return false
	}

	switch iban[2:4] {
	case "00", "01", "99":
		return false
	}

	return hasValidMod97CheckDigits(iban)
}

// IsQRIBAN reports whether iban is a valid Swiss or Liechtenstein QR-IBAN,
// i.e. its institution identification lies in the range 30000 to 31999.
func IsQRIBAN(iban string) bool {
	iban = strings.ToUpper(strutil.WhitespaceRemoved(iban))

	return IsValidIBAN(iban) &&
		len(iban) > 5 &&
		(strings.HasPrefix(iban, "CH") || strings.HasPrefix(iban, "LI")) &&
		iban[4] == '3' &&
		(iban[5] == '0' || iban[5] == '1')
}

// FormatIBAN inserts a space after every group of four characters.
//
// Example:
//
//	FormatIBAN("CH4431999123000889012")
//	// Returns: "CH44 3199 9123 0008 8901 2"
func FormatIBAN(iban string) string {
	var sb strings.Builder
	sb.Grow(len(iban) + len(iban)/4)

	for pos := 0; pos < len(iban); pos += 4 {
		end := min(pos+4, len(iban))
		sb.WriteString(iban[pos:end])
		if end != len(iban) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
