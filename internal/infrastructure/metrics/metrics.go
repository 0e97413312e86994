package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics covers the confirmation protocol and the outbound gateway.
type PaymentMetrics struct {
	PaymentsConfirmedTotal       prometheus.CounterVec
	PaymentsConfirmedAmountTotal prometheus.CounterVec
	ConfirmationOutcomeTotal     prometheus.CounterVec
	RefundsDoneTotal             prometheus.CounterVec

	WebhookRejectedTotal prometheus.CounterVec

	GatewayRequestDuration prometheus.HistogramVec
	GatewayErrorsTotal     prometheus.CounterVec
}

func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		PaymentsConfirmedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_confirmed_total",
				Help: "Payments confirmed, by delivery path and gateway status",
			},
			[]string{"event", "path", "gateway_status"},
		),

		PaymentsConfirmedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_confirmed_amount_total",
				Help: "Confirmed payment volume in minor units",
			},
			[]string{"event", "currency"},
		),

		ConfirmationOutcomeTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_confirmation_outcome_total",
				Help: "Confirmation attempts by outcome (confirmed, already_confirmed, unexpected_status, refno_mismatch)",
			},
			[]string{"event", "path", "outcome"},
		),

		RefundsDoneTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refunds_done_total",
				Help: "Refunds credited back through the gateway",
			},
			[]string{"event", "currency"},
		),

		WebhookRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_rejected_total",
				Help: "Webhook deliveries rejected before processing",
			},
			[]string{"reason"},
		),

		GatewayRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Latency of outbound datatrans API calls",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"operation"},
		),

		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_errors_total",
				Help: "Failed outbound datatrans API calls",
			},
			[]string{"operation"},
		),
	}
}

func (m *PaymentMetrics) RecordConfirmed(event, path, gatewayStatus, currency string, amountMinor int64) {
	m.PaymentsConfirmedTotal.WithLabelValues(event, path, gatewayStatus).Inc()
	m.PaymentsConfirmedAmountTotal.WithLabelValues(event, currency).Add(float64(amountMinor))
}

func (m *PaymentMetrics) RecordOutcome(event, path, outcome string) {
	m.ConfirmationOutcomeTotal.WithLabelValues(event, path, outcome).Inc()
}

func (m *PaymentMetrics) RecordRefund(event, currency string) {
	m.RefundsDoneTotal.WithLabelValues(event, currency).Inc()
}

func (m *PaymentMetrics) RecordWebhookRejected(reason string) {
	m.WebhookRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *PaymentMetrics) RecordGatewayRequest(operation string, start time.Time, err error) {
	m.GatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
	}
}
