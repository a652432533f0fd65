package handler

import (
	"time"

	"github.com/google/uuid"

	"qrbill/internal/billing"
	"qrbill/pkg/bill"
	"qrbill/pkg/validation"
)

// ValidationResponse reports the outcome of a validation.
type ValidationResponse struct {
	Valid       bool                 `json:"valid"`
	Messages    []validation.Message `json:"messages"`
	Description string               `json:"description"`
	CleanedBill *bill.Bill           `json:"cleaned_bill,omitempty"`
}

// FromResult converts a validation result.
func FromResult(r *validation.Result) ValidationResponse {
	messages := r.Messages
	if messages == nil {
		messages = []validation.Message{}
	}
	return ValidationResponse{
		Valid:       r.IsValid(),
		Messages:    messages,
		Description: r.Description(),
		CleanedBill: r.CleanedBill,
	}
}

// BatchResponse holds the results in request order.
type BatchResponse struct {
	Results []ValidationResponse `json:"results"`
}

// EncodeResponse carries the QR text.
type EncodeResponse struct {
	QRText string `json:"qr_text"`
}

// DecodeResponse carries the decoded bill and, when revalidation was
// requested, the validation outcome.
type DecodeResponse struct {
	Bill       *bill.Bill          `json:"bill"`
	Validation *ValidationResponse `json:"validation,omitempty"`
}

// IssuedBillResponse describes a persisted bill.
type IssuedBillResponse struct {
	ID                 uuid.UUID  `json:"id"`
	QRText             string     `json:"qr_text"`
	FormattedReference string     `json:"formatted_reference,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	Bill               *bill.Bill `json:"bill,omitempty"`
}

// FromIssued converts an issued bill. The bill body is included on lookups.
func FromIssued(issued *billing.IssuedBill, withBill bool) IssuedBillResponse {
	resp := IssuedBillResponse{
		ID:                 issued.ID,
		QRText:             issued.QRText,
		FormattedReference: issued.Bill.FormattedReference(),
		CreatedAt:          issued.CreatedAt,
	}
	if withBill {
		resp.Bill = issued.Bill
	}
	return resp
}

// ReferenceResponse carries a reference and its display form.
type ReferenceResponse struct {
	ReferenceType bill.ReferenceType `json:"reference_type"`
	Reference     string             `json:"reference"`
	Formatted     string             `json:"formatted"`
}
