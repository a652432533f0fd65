package qrtext

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"qrbill/pkg/bill"
	"qrbill/pkg/validation"
)

var (
	validVersion = regexp.MustCompile(`^02\d\d$`)
	// Invariant decimal notation: optional sign, digits, optional fraction.
	// No group separators.
	validAmount = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
)

// DecodeError reports a structural problem of a QR text. It carries exactly
// one validation message identifying the offending field.
type DecodeError struct {
	Message validation.Message
}

func (e *DecodeError) Error() string {
	return "invalid QR bill text: " + e.Message.Describe() + " (" + e.Message.Key + ")"
}

// Result returns the message as a validation result.
func (e *DecodeError) Result() *validation.Result {
	return &validation.Result{Messages: []validation.Message{e.Message}}
}

func newDecodeError(field, key string) *DecodeError {
	return &DecodeError{Message: validation.Message{Type: validation.Error, Field: field, Key: key}}
}

type decodeOptions struct {
	allowInvalidAmount bool
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeOptions)

// AllowInvalidAmount leaves the amount absent when it cannot be parsed
// instead of failing.
func AllowInvalidAmount() DecodeOption {
	return func(o *decodeOptions) {
		o.allowInvalidAmount = true
	}
}

// Decode parses QR code text into a bill.
//
// Only the structure is checked: line count, header, trailer and the amount
// format. The result is not validated; run validation.Validate on it to check
// the content. Structural failures are returned as *DecodeError.
//
// A single trailing line break is tolerated, as are reference types other
// than NON, QRR and SCOR.
func Decode(text string, opts ...DecodeOption) (*bill.Bill, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	lines := splitLines(text)
	if len(lines) < 31 || len(lines) > 34 {
		if len(lines) != 35 || lines[34] != "" {
			return nil, newDecodeError(validation.FieldQRText, validation.KeyDataStructureInvalid)
		}
	}

	if lines[0] != qrType {
		return nil, newDecodeError(validation.FieldQRText, validation.KeyDataStructureInvalid)
	}
	if !validVersion.MatchString(lines[1]) {
		return nil, newDecodeError(validation.FieldVersion, validation.KeyVersionUnsupported)
	}
	if lines[2] != codingType {
		return nil, newDecodeError(validation.FieldCodingType, validation.KeyCodingTypeUnsupported)
	}

	b := &bill.Bill{
		Account:  lines[3],
		Creditor: *decodeAddress(lines[4:11]),
	}
	if strings.Contains(text, "\r\n") {
		b.Separator = bill.SeparatorCRLF
	}

	if lines[18] != "" {
		amount, ok := parseAmount(lines[18])
		switch {
		case ok:
			b.Amount = &amount
		case !o.allowInvalidAmount:
			return nil, newDecodeError(validation.FieldAmount, validation.KeyNumberInvalid)
		}
	}

	b.Currency = lines[19]
	if !allEmpty(lines[20:27]) {
		b.Debtor = decodeAddress(lines[20:27])
	}

	// The type line is kept as written, even if it disagrees with the reference.
	b.Reference = lines[28]
	b.ReferenceType = bill.ReferenceType(lines[27])
	b.UnstructuredMessage = lines[29]

	if lines[30] != trailer {
		return nil, newDecodeError(validation.FieldTrailer, validation.KeyDataStructureInvalid)
	}

	if len(lines) > 31 {
		b.BillInformation = lines[31]
	}

	numSchemes := len(lines) - 32
	if numSchemes > 0 && lines[len(lines)-1] == "" {
		numSchemes--
	}
	for i := 0; i < numSchemes; i++ {
		b.AlternativeSchemes = append(b.AlternativeSchemes, bill.AlternativeScheme{Instruction: lines[32+i]})
	}

	return b, nil
}

// splitLines splits on CR LF, CR or LF. A trailing line break yields a final
// empty line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// decodeAddress reads the seven address lines. The address type line selects
// which fields the second and third lines are written to; postal code and
// town are only written when present.
func decodeAddress(lines []string) *bill.Address {
	a := &bill.Address{
		Name:        lines[1],
		CountryCode: lines[6],
	}
	if lines[0] == "S" {
		a.SetStreet(lines[2])
		a.SetHouseNo(lines[3])
	} else {
		a.SetAddressLine1(lines[2])
		a.SetAddressLine2(lines[3])
	}
	if lines[4] != "" {
		a.SetPostalCode(lines[4])
	}
	if lines[5] != "" {
		a.SetTown(lines[5])
	}
	return a
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !validAmount.MatchString(s) {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func allEmpty(lines []string) bool {
	for _, l := range lines {
		if l != "" {
			return false
		}
	}
	return true
}
