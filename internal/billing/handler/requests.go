package handler

import (
	"strings"

	"qrbill/internal/billing"
	"qrbill/pkg/bill"
	"qrbill/pkg/charset"
	dErrors "qrbill/pkg/domain-errors"
)

const maxQRTextLength = 10000

// BillRequest is a bill in its JSON form. character_set is optional; when it
// is absent the server default applies.
type BillRequest struct {
	bill.Bill
	CharacterSet *charset.CharacterSet `json:"character_set,omitempty"`
}

// ToBill returns the bill with the requested or default character set.
func (r *BillRequest) ToBill(def charset.CharacterSet) *bill.Bill {
	b := r.Bill.Clone()
	b.CharacterSet = def
	if r.CharacterSet != nil {
		b.CharacterSet = *r.CharacterSet
	}
	return b
}

// BatchRequest is the body of POST /v1/bills/validate-batch.
type BatchRequest struct {
	Bills []BillRequest `json:"bills"`
}

// Validate implements httputil.Validatable.
func (r *BatchRequest) Validate() error {
	if len(r.Bills) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "bills must contain at least one bill")
	}
	return nil
}

// DecodeRequest is the body of POST /v1/qr-text/decode.
type DecodeRequest struct {
	QRText             string `json:"qr_text"`
	Revalidate         bool   `json:"revalidate"`
	AllowInvalidAmount bool   `json:"allow_invalid_amount"`
}

// Validate implements httputil.Validatable.
func (r *DecodeRequest) Validate() error {
	if r.QRText == "" {
		return dErrors.New(dErrors.CodeValidation, "qr_text is required")
	}
	if len(r.QRText) > maxQRTextLength {
		return dErrors.New(dErrors.CodeValidation, "qr_text is too long")
	}
	return nil
}

// ReferenceRequest is the body of POST /v1/references.
type ReferenceRequest struct {
	Kind string `json:"kind"`
	Raw  string `json:"raw"`

	parsedKind billing.ReferenceKind
}

// Validate implements httputil.Validatable.
func (r *ReferenceRequest) Validate() error {
	kind, ok := billing.ParseReferenceKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if !ok {
		return dErrors.New(dErrors.CodeValidation, `kind must be "qr" or "iso11649"`)
	}
	r.parsedKind = kind
	return nil
}

// ParsedKind returns the validated reference kind.
func (r *ReferenceRequest) ParsedKind() billing.ReferenceKind {
	return r.parsedKind
}
