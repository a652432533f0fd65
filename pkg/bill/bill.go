// Package bill holds the payment data carried by a Swiss QR bill.
package bill

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"qrbill/pkg/charset"
	"qrbill/pkg/payments"
)

// ReferenceType identifies the kind of payment reference.
type ReferenceType string

const (
	ReferenceTypeNone     ReferenceType = "NON"
	ReferenceTypeQR       ReferenceType = "QRR"
	ReferenceTypeCreditor ReferenceType = "SCOR"
)

// Separator is the line separator used in the QR code text.
type Separator int

const (
	SeparatorLF Separator = iota
	SeparatorCRLF
)

func (s Separator) String() string {
	if s == SeparatorCRLF {
		return "crlf"
	}
	return "lf"
}

// Newline returns the characters written between two lines.
func (s Separator) Newline() string {
	if s == SeparatorCRLF {
		return "\r\n"
	}
	return "\n"
}

// MarshalText implements encoding.TextMarshaler.
func (s Separator) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Separator) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "lf":
		*s = SeparatorLF
	case "crlf":
		*s = SeparatorCRLF
	default:
		return fmt.Errorf("unknown separator %q", string(text))
	}
	return nil
}

// AlternativeScheme is an instruction for a payment scheme other than the
// QR bill itself. Only the instruction is encoded in the QR code.
type AlternativeScheme struct {
	Name        string `json:"name,omitempty"`
	Instruction string `json:"instruction,omitempty"`
}

// Bill is the data of a QR bill.
//
// Optional text fields are absent when empty. A nil Amount leaves the amount
// open for the payer, a nil Debtor leaves the payer unspecified.
type Bill struct {
	Account  string           `json:"account"`
	Creditor Address          `json:"creditor"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency string           `json:"currency"`
	Debtor   *Address         `json:"debtor,omitempty"`

	// ReferenceType is normally derived by SetReference. When set explicitly
	// it must agree with the reference; an empty value is derived during
	// validation.
	ReferenceType ReferenceType `json:"reference_type,omitempty"`
	Reference     string        `json:"reference,omitempty"`

	UnstructuredMessage string              `json:"unstructured_message,omitempty"`
	BillInformation     string              `json:"bill_information,omitempty"`
	AlternativeSchemes  []AlternativeScheme `json:"alternative_schemes,omitempty"`

	CharacterSet charset.CharacterSet `json:"character_set"`
	Separator    Separator            `json:"separator"`
}

// SetReference stores the reference and derives its type: empty yields NON,
// a leading "RF" yields SCOR and anything else QRR.
func (b *Bill) SetReference(reference string) {
	b.Reference = reference
	b.ReferenceType = DeriveReferenceType(reference)
}

// DeriveReferenceType returns the reference type implied by reference.
func DeriveReferenceType(reference string) ReferenceType {
	reference = strings.TrimSpace(reference)
	switch {
	case reference == "":
		return ReferenceTypeNone
	case strings.HasPrefix(reference, "RF"):
		return ReferenceTypeCreditor
	default:
		return ReferenceTypeQR
	}
}

// CreateAndSetQRReference builds a QR reference from raw digits and sets it.
func (b *Bill) CreateAndSetQRReference(rawReference string) error {
	ref, err := payments.CreateQRReference(rawReference)
	if err != nil {
		return err
	}
	b.SetReference(ref)
	return nil
}

// CreateAndSetCreditorReference builds an ISO 11649 creditor reference from
// the raw reference and sets it.
func (b *Bill) CreateAndSetCreditorReference(rawReference string) error {
	ref, err := payments.CreateISO11649Reference(rawReference)
	if err != nil {
		return err
	}
	b.SetReference(ref)
	return nil
}

// FormattedReference returns the reference grouped for display.
func (b *Bill) FormattedReference() string {
	return payments.FormatReference(string(b.ReferenceType), b.Reference)
}

// Clone returns a copy that shares no mutable state with b.
func (b *Bill) Clone() *Bill {
	c := *b
	if b.Amount != nil {
		amount := *b.Amount
		c.Amount = &amount
	}
	if b.Debtor != nil {
		debtor := *b.Debtor
		c.Debtor = &debtor
	}
	c.AlternativeSchemes = slices.Clone(b.AlternativeSchemes)
	return &c
}

// Equal compares two bills field by field. Amounts are compared by value.
func (b *Bill) Equal(o *Bill) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Account == o.Account &&
		b.Creditor.Equal(&o.Creditor) &&
		amountsEqual(b.Amount, o.Amount) &&
		b.Currency == o.Currency &&
		b.Debtor.Equal(o.Debtor) &&
		b.ReferenceType == o.ReferenceType &&
		b.Reference == o.Reference &&
		b.UnstructuredMessage == o.UnstructuredMessage &&
		b.BillInformation == o.BillInformation &&
		slices.Equal(b.AlternativeSchemes, o.AlternativeSchemes) &&
		b.CharacterSet == o.CharacterSet &&
		b.Separator == o.Separator
}

func amountsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
