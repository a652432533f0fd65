package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"qrbill/pkg/validation"
)

// Metrics provides observability for the billing module.
type Metrics struct {
	// Validation runs by outcome: valid, invalid
	Validations *prometheus.CounterVec

	// Messages emitted by validation, by type and message key
	Messages *prometheus.CounterVec

	// QR text decode attempts by outcome: ok or the failing message key
	Decodes *prometheus.CounterVec

	BillsIssued     prometheus.Counter
	BatchSize       prometheus.Histogram
	ValidateLatency prometheus.Histogram
}

// New creates the billing metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrbill_validations_total",
			Help: "Total bill validations by outcome",
		}, []string{"outcome"}),

		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrbill_validation_messages_total",
			Help: "Validation messages by type and message key",
		}, []string{"type", "key"}),

		Decodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrbill_decodes_total",
			Help: "QR text decode attempts by outcome",
		}, []string{"outcome"}),

		BillsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "qrbill_bills_issued_total",
			Help: "Total bills issued and persisted",
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "qrbill_validation_batch_size",
			Help:    "Number of bills per batch validation request",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),

		ValidateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "qrbill_validate_duration_seconds",
			Help:    "Duration of a single bill validation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}
}

// ObserveValidation records the outcome, messages and duration of one run.
func (m *Metrics) ObserveValidation(result *validation.Result, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "valid"
	if result.HasErrors() {
		outcome = "invalid"
	}
	m.Validations.WithLabelValues(outcome).Inc()
	for _, msg := range result.Messages {
		m.Messages.WithLabelValues(msg.Type.String(), msg.Key).Inc()
	}
	m.ValidateLatency.Observe(d.Seconds())
}

// IncrementDecode records a decode outcome.
func (m *Metrics) IncrementDecode(outcome string) {
	if m != nil {
		m.Decodes.WithLabelValues(outcome).Inc()
	}
}

// IncrementIssued records a persisted bill.
func (m *Metrics) IncrementIssued() {
	if m != nil {
		m.BillsIssued.Inc()
	}
}

// ObserveBatchSize records the size of a batch request.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
