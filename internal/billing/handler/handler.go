package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"qrbill/internal/billing"
	"qrbill/pkg/bill"
	"qrbill/pkg/charset"
	dErrors "qrbill/pkg/domain-errors"
	"qrbill/pkg/platform/httputil"
	"qrbill/pkg/qrtext"
	"qrbill/pkg/requestcontext"
	"qrbill/pkg/validation"
)

// Service defines the billing operations used by the HTTP layer.
type Service interface {
	Validate(ctx context.Context, b *bill.Bill) *validation.Result
	ValidateBatch(ctx context.Context, bills []*bill.Bill) ([]*validation.Result, error)
	Encode(ctx context.Context, b *bill.Bill) (string, error)
	Decode(ctx context.Context, text string, opts billing.DecodeOptions) (*billing.DecodeOutcome, error)
	Issue(ctx context.Context, b *bill.Bill) (*billing.IssuedBill, error)
	Get(ctx context.Context, id uuid.UUID) (*billing.IssuedBill, error)
	CreateReference(kind billing.ReferenceKind, raw string) (string, error)
	FormatReference(refType bill.ReferenceType, reference string) string
	Health(ctx context.Context) error
}

// Handler wires billing endpoints to the billing service.
type Handler struct {
	service        Service
	logger         *slog.Logger
	defaultCharset charset.CharacterSet
}

// New constructs a billing handler. defaultCharset applies to bills that do
// not name a character set.
func New(service Service, logger *slog.Logger, defaultCharset charset.CharacterSet) *Handler {
	return &Handler{
		service:        service,
		logger:         logger,
		defaultCharset: defaultCharset,
	}
}

// Register mounts billing endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/bills/validate", h.HandleValidate)
		r.Post("/bills/validate-batch", h.HandleValidateBatch)
		r.Post("/bills/encode", h.HandleEncode)
		r.Post("/bills", h.HandleIssue)
		r.Get("/bills/{id}", h.HandleGet)
		r.Post("/qr-text/decode", h.HandleDecode)
		r.Post("/references", h.HandleCreateReference)
		r.Get("/references/format", h.HandleFormatReference)
	})
}

// HandleValidate handles POST /v1/bills/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BillRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Validate(ctx, req.ToBill(h.defaultCharset))
	h.logger.InfoContext(ctx, "bill validated",
		"request_id", requestID,
		"valid", result.IsValid(),
		"messages", len(result.Messages),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleValidateBatch handles POST /v1/bills/validate-batch.
func (h *Handler) HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	bills := make([]*bill.Bill, len(req.Bills))
	for i := range req.Bills {
		bills[i] = req.Bills[i].ToBill(h.defaultCharset)
	}

	results, err := h.service.ValidateBatch(ctx, bills)
	if err != nil {
		h.logger.ErrorContext(ctx, "batch validation failed",
			"request_id", requestID,
			"bills", len(bills),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := BatchResponse{Results: make([]ValidationResponse, len(results))}
	for i, result := range results {
		resp.Results[i] = FromResult(result)
	}

	h.logger.InfoContext(ctx, "batch validated",
		"request_id", requestID,
		"bills", len(bills),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleEncode handles POST /v1/bills/encode.
func (h *Handler) HandleEncode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BillRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	text, err := h.service.Encode(ctx, req.ToBill(h.defaultCharset))
	if err != nil {
		h.writeServiceError(ctx, w, "encode failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EncodeResponse{QRText: text})
}

// HandleDecode handles POST /v1/qr-text/decode.
func (h *Handler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DecodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Decode(ctx, req.QRText, billing.DecodeOptions{
		Revalidate:         req.Revalidate,
		AllowInvalidAmount: req.AllowInvalidAmount,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "decode failed", err)
		return
	}

	resp := DecodeResponse{Bill: outcome.Bill}
	if outcome.Result != nil {
		v := FromResult(outcome.Result)
		resp.Validation = &v
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleIssue handles POST /v1/bills.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BillRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	issued, err := h.service.Issue(ctx, req.ToBill(h.defaultCharset))
	if err != nil {
		h.writeServiceError(ctx, w, "issue failed", err)
		return
	}

	w.Header().Set("Location", "/v1/bills/"+issued.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, FromIssued(issued, false))
}

// HandleGet handles GET /v1/bills/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id must be a UUID"))
		return
	}

	issued, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "get bill failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIssued(issued, true))
}

// HandleCreateReference handles POST /v1/references.
func (h *Handler) HandleCreateReference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ReferenceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ref, err := h.service.CreateReference(req.ParsedKind(), req.Raw)
	if err != nil {
		h.writeServiceError(ctx, w, "create reference failed", err)
		return
	}

	refType := bill.DeriveReferenceType(ref)
	httputil.WriteJSON(w, http.StatusOK, ReferenceResponse{
		ReferenceType: refType,
		Reference:     ref,
		Formatted:     h.service.FormatReference(refType, ref),
	})
}

// HandleFormatReference handles GET /v1/references/format?type=&value=.
// Without a type the reference type is derived from the value.
func (h *Handler) HandleFormatReference(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if strings.TrimSpace(value) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "value is required"))
		return
	}

	refType := bill.ReferenceType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))
	if refType == "" {
		refType = bill.DeriveReferenceType(value)
	}

	httputil.WriteJSON(w, http.StatusOK, ReferenceResponse{
		ReferenceType: refType,
		Reference:     value,
		Formatted:     h.service.FormatReference(refType, value),
	})
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Health(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError reports validation and decode failures as 422 with the
// validation messages and everything else through httputil.WriteError.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := requestcontext.RequestID(ctx)

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		h.logger.InfoContext(ctx, msg, "request_id", requestID, "description", verr.Result.Description())
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, FromResult(verr.Result))
		return
	}

	var derr *qrtext.DecodeError
	if errors.As(err, &derr) {
		h.logger.InfoContext(ctx, msg, "request_id", requestID, "message_key", derr.Message.Key)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, FromResult(derr.Result()))
		return
	}

	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	httputil.WriteError(w, err)
}
