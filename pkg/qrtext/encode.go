// Package qrtext converts bills to and from the line based text embedded in
// the QR code of a Swiss QR bill.
package qrtext

import (
	"strings"

	"qrbill/pkg/bill"
	"qrbill/pkg/validation"
)

const (
	qrType     = "SPC"
	version    = "0200"
	codingType = "1"
	trailer    = "EPD"
)

// Encode renders the bill as QR code text. The bill is expected to be the
// cleaned output of validation; it is not checked again. Lines are separated,
// not terminated, by the bill's separator.
func Encode(b *bill.Bill) string {
	lines := make([]string, 0, 34)
	lines = append(lines, qrType, version, codingType)

	lines = append(lines, b.Account)
	lines = appendAddress(lines, &b.Creditor)
	lines = appendAddress(lines, nil) // ultimate creditor, reserved

	amount := ""
	if b.Amount != nil {
		amount = b.Amount.StringFixed(2)
	}
	lines = append(lines, amount, b.Currency)

	lines = appendAddress(lines, b.Debtor)

	lines = append(lines, string(b.ReferenceType), b.Reference)
	lines = append(lines, b.UnstructuredMessage, trailer)

	hasSchemes := len(b.AlternativeSchemes) > 0
	if hasSchemes || b.BillInformation != "" {
		lines = append(lines, b.BillInformation)
	}
	for i, scheme := range b.AlternativeSchemes {
		if i == validation.MaxAlternativeSchemes {
			break
		}
		lines = append(lines, scheme.Instruction)
	}

	return strings.Join(lines, b.Separator.Newline())
}

// EncodeValidated validates the bill and encodes the cleaned result. If
// validation reports errors a *validation.ValidationError is returned.
func EncodeValidated(b *bill.Bill) (string, error) {
	result := validation.Validate(b)
	if result.HasErrors() {
		return "", &validation.ValidationError{Result: result}
	}
	return Encode(result.CleanedBill), nil
}

func appendAddress(lines []string, a *bill.Address) []string {
	if a == nil {
		return append(lines, "", "", "", "", "", "", "")
	}

	if a.Type() == bill.AddressStructured {
		return append(lines, "S", a.Name, a.Street(), a.HouseNo(), a.PostalCode(), a.Town(), a.CountryCode)
	}
	return append(lines, "K", a.Name, a.AddressLine1(), a.AddressLine2(), a.PostalCode(), a.Town(), a.CountryCode)
}
