package validation

import (
	"fmt"
	"strings"

	"qrbill/pkg/bill"
)

// MessageType is the severity of a validation message.
type MessageType int

const (
	// Warning means the value was adjusted (clipped, characters replaced).
	Warning MessageType = iota
	// Error means the value was rejected and omitted from the cleaned bill.
	Error
)

func (t MessageType) String() string {
	if t == Error {
		return "error"
	}
	return "warning"
}

// MarshalText implements encoding.TextMarshaler.
func (t MessageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Message is a single validation finding.
type Message struct {
	Type       MessageType `json:"type"`
	Field      string      `json:"field"`
	Key        string      `json:"message_key"`
	Parameters []string    `json:"message_parameters,omitempty"`
}

// Result collects the messages of a validation run together with the
// cleaned bill.
type Result struct {
	Messages    []Message
	CleanedBill *bill.Bill
}

// Add appends a message.
func (r *Result) Add(t MessageType, field, key string, params ...string) {
	r.Messages = append(r.Messages, Message{Type: t, Field: field, Key: key, Parameters: params})
}

// HasMessages reports whether any message was recorded.
func (r *Result) HasMessages() bool {
	return len(r.Messages) > 0
}

func (r *Result) HasErrors() bool {
	return r.has(Error)
}

func (r *Result) HasWarnings() bool {
	return r.has(Warning)
}

// IsValid reports whether the bill has no errors. Warnings are allowed.
func (r *Result) IsValid() bool {
	return !r.HasErrors()
}

func (r *Result) has(t MessageType) bool {
	for _, m := range r.Messages {
		if m.Type == t {
			return true
		}
	}
	return false
}

// Errors returns the error messages in the order they were recorded.
func (r *Result) Errors() []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Type == Error {
			out = append(out, m)
		}
	}
	return out
}

var descriptions = map[string]string{
	KeyCurrencyNotCHFOrEUR:           `currency should be "CHF" or "EUR"`,
	KeyAmountOutsideValidRange:       "amount should be between 0.00 and 999 999 999.99",
	KeyAccountIBANNotFromCHOrLI:      `account number should start with "CH" or "LI"`,
	KeyAccountIBANInvalid:            "account number is not a valid IBAN (invalid format or checksum)",
	KeyRefInvalid:                    "reference is invalid; it is neither a valid QR reference nor a valid ISO 11649 reference",
	KeyQRRefMissing:                  "QR reference is missing; it is mandatory for payments to a QR-IBAN account",
	KeyCredRefInvalidUseForQRIBAN:    "for payments to a QR-IBAN account, a QR reference is required (an ISO 11649 reference may not be used)",
	KeyQRRefInvalidUseForNonQRIBAN:   "a QR reference is only allowed for payments to a QR-IBAN account",
	KeyRefTypeInvalid:                `reference type should be one of "QRR", "SCOR" and "NON" and match the reference`,
	KeyFieldValueMissing:             `field "%s" may not be empty`,
	KeyAddressTypeConflict:           "fields for either structured address or combined elements address may be filled but not both",
	KeyCountryCodeInvalid:            "country code is invalid; it should consist of two letters",
	KeyFieldValueClipped:             `the value for field "%s" has been clipped to not exceed the maximum length of %s characters`,
	KeyFieldValueTooLong:             `the value for field "%s" should not exceed a length of %s characters`,
	KeyAdditionalInfoTooLong:         "the additional information and the structured bill information combined should not exceed 140 characters",
	KeyReplacedUnsupportedCharacters: `unsupported characters have been replaced in field "%s"`,
	KeyDataStructureInvalid:          "the text is not a valid QR bill data structure",
	KeyVersionUnsupported:            "the QR bill version is not supported",
	KeyCodingTypeUnsupported:         "the character coding type is not supported",
	KeyNumberInvalid:                 "the amount is not a valid number",
	KeyAltSchemeMaxExceeded:          "no more than two alternative schemes may be used",
	KeyBillInfoInvalid:               `structured bill information must start with "//"`,
}

// Describe returns the English description of a single message.
func (m Message) Describe() string {
	desc, ok := descriptions[m.Key]
	if !ok {
		return "Unknown error"
	}

	switch m.Key {
	case KeyFieldValueMissing, KeyReplacedUnsupportedCharacters:
		return fmt.Sprintf(desc, m.Field)
	case KeyFieldValueTooLong, KeyFieldValueClipped:
		limit := ""
		if len(m.Parameters) > 0 {
			limit = m.Parameters[0]
		}
		return fmt.Sprintf(desc, m.Field, limit)
	default:
		return desc
	}
}

// Description summarizes the errors of the result in English. Warnings are
// not included.
func (r *Result) Description() string {
	if !r.HasErrors() {
		return "Valid bill data"
	}

	var sb strings.Builder
	for _, m := range r.Errors() {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(m.Describe())
		sb.WriteString(" (")
		sb.WriteString(m.Key)
		sb.WriteString(")")
	}
	return sb.String()
}

// ValidationError carries a result containing at least one error. It is
// returned by operations that refuse to proceed with invalid bill data.
type ValidationError struct {
	Result *Result
}

func (e *ValidationError) Error() string {
	return "QR bill data is invalid: " + e.Result.Description()
}
