package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"qrbill/internal/billing/metrics"
	"qrbill/pkg/bill"
	dErrors "qrbill/pkg/domain-errors"
	"qrbill/pkg/payments"
	"qrbill/pkg/platform/sentinel"
	"qrbill/pkg/qrtext"
	"qrbill/pkg/requestcontext"
	"qrbill/pkg/validation"
)

const (
	defaultBatchLimit       = 50
	defaultBatchConcurrency = 8
)

// Service validates, converts and issues bills.
type Service struct {
	store            Store
	logger           *slog.Logger
	metrics          *metrics.Metrics
	batchLimit       int
	batchConcurrency int
	newID            func() uuid.UUID
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBatchLimits bounds the number of bills per batch and how many are
// validated concurrently. Non-positive values keep the defaults.
func WithBatchLimits(limit, concurrency int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.batchLimit = limit
		}
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
	}
}

// WithIDGenerator replaces the UUID generator for issued bills.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService constructs a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:            store,
		logger:           slog.Default(),
		batchLimit:       defaultBatchLimit,
		batchConcurrency: defaultBatchConcurrency,
		newID:            uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Validate checks and cleans a bill.
func (s *Service) Validate(ctx context.Context, b *bill.Bill) *validation.Result {
	start := time.Now()
	result := validation.Validate(b)
	s.metrics.ObserveValidation(result, time.Since(start))
	return result
}

// ValidateBatch validates bills concurrently and returns the results in input
// order.
func (s *Service) ValidateBatch(ctx context.Context, bills []*bill.Bill) ([]*validation.Result, error) {
	if len(bills) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one bill is required")
	}
	if len(bills) > s.batchLimit {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("at most %d bills per batch", s.batchLimit))
	}
	for i, b := range bills {
		if b == nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("bill %d is empty", i))
		}
	}
	s.metrics.ObserveBatchSize(len(bills))

	results := make([]*validation.Result, len(bills))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, b := range bills {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Validate(ctx, b)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validate batch: %w", err)
	}
	return results, nil
}

// Encode validates the bill and returns the QR text of the cleaned bill.
// Invalid bills fail with *validation.ValidationError.
func (s *Service) Encode(ctx context.Context, b *bill.Bill) (string, error) {
	result := s.Validate(ctx, b)
	if result.HasErrors() {
		return "", &validation.ValidationError{Result: result}
	}
	return qrtext.Encode(result.CleanedBill), nil
}

// Decode parses QR text. Structural failures are returned as
// *qrtext.DecodeError.
func (s *Service) Decode(ctx context.Context, text string, opts DecodeOptions) (*DecodeOutcome, error) {
	var decodeOpts []qrtext.DecodeOption
	if opts.AllowInvalidAmount {
		decodeOpts = append(decodeOpts, qrtext.AllowInvalidAmount())
	}

	b, err := qrtext.Decode(text, decodeOpts...)
	if err != nil {
		var derr *qrtext.DecodeError
		if errors.As(err, &derr) {
			s.metrics.IncrementDecode(derr.Message.Key)
		}
		return nil, err
	}
	s.metrics.IncrementDecode("ok")

	outcome := &DecodeOutcome{Bill: b}
	if opts.Revalidate {
		outcome.Result = s.Validate(ctx, b)
	}
	return outcome, nil
}

// Issue validates the bill, encodes it and persists the cleaned bill.
func (s *Service) Issue(ctx context.Context, b *bill.Bill) (*IssuedBill, error) {
	result := s.Validate(ctx, b)
	if result.HasErrors() {
		return nil, &validation.ValidationError{Result: result}
	}

	issued := &IssuedBill{
		ID:        s.newID(),
		Bill:      result.CleanedBill,
		QRText:    qrtext.Encode(result.CleanedBill),
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}

	if err := s.store.Save(ctx, issued); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "a bill with this account and reference has already been issued")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save bill")
	}
	s.metrics.IncrementIssued()

	s.logger.InfoContext(ctx, "bill issued",
		"request_id", requestcontext.RequestID(ctx),
		"bill_id", issued.ID,
		"reference_type", issued.Bill.ReferenceType,
	)
	return issued, nil
}

// Get returns an issued bill.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*IssuedBill, error) {
	issued, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "bill not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bill")
	}
	return issued, nil
}

// CreateReference builds a reference with check digits from raw input.
func (s *Service) CreateReference(kind ReferenceKind, raw string) (string, error) {
	var (
		ref string
		err error
	)
	switch kind {
	case ReferenceKindQR:
		ref, err = payments.CreateQRReference(raw)
	case ReferenceKindISO11649:
		ref, err = payments.CreateISO11649Reference(raw)
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown reference kind %q", kind))
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return ref, nil
}

// FormatReference formats a reference for display.
func (s *Service) FormatReference(refType bill.ReferenceType, reference string) string {
	return payments.FormatReference(string(refType), reference)
}

// Health checks the store backend.
func (s *Service) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "store unavailable")
	}
	return nil
}
