// Package billing orchestrates validation, QR text conversion and issuing of
// bills on top of the core packages.
package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"qrbill/pkg/bill"
	"qrbill/pkg/validation"
)

// IssuedBill is a validated bill persisted together with its QR text.
type IssuedBill struct {
	ID        uuid.UUID  `json:"id"`
	Bill      *bill.Bill `json:"bill"`
	QRText    string     `json:"qr_text"`
	CreatedAt time.Time  `json:"created_at"`
}

// Store persists issued bills.
//
// Save returns sentinel.ErrConflict when a bill with the same account and
// non-empty reference exists. FindByID returns sentinel.ErrNotFound for
// unknown or expired bills.
type Store interface {
	Save(ctx context.Context, issued *IssuedBill) error
	FindByID(ctx context.Context, id uuid.UUID) (*IssuedBill, error)
	Ping(ctx context.Context) error
}

// DecodeOptions controls Service.Decode.
type DecodeOptions struct {
	// Revalidate runs validation on the decoded bill.
	Revalidate bool
	// AllowInvalidAmount leaves an unparsable amount absent.
	AllowInvalidAmount bool
}

// DecodeOutcome is the decoded bill and, if requested, its validation result.
type DecodeOutcome struct {
	Bill   *bill.Bill
	Result *validation.Result
}

// ReferenceKind selects the reference scheme for CreateReference.
type ReferenceKind string

const (
	ReferenceKindQR       ReferenceKind = "qr"
	ReferenceKindISO11649 ReferenceKind = "iso11649"
)

// ParseReferenceKind accepts "qr", "iso11649" and the "iso" shorthand.
func ParseReferenceKind(s string) (ReferenceKind, bool) {
	switch s {
	case "qr", "qrr":
		return ReferenceKindQR, true
	case "iso11649", "iso", "scor":
		return ReferenceKindISO11649, true
	default:
		return "", false
	}
}
