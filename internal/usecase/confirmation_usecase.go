package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tickethub/datatrans-service/internal/domain"
	publisher "github.com/tickethub/datatrans-service/internal/infrastructure/kafka"
	"github.com/tickethub/datatrans-service/internal/infrastructure/metrics"
)

type ConfirmationOutcome string

const (
	OutcomeConfirmed        ConfirmationOutcome = "confirmed"
	OutcomeAlreadyConfirmed ConfirmationOutcome = "already_confirmed"
	OutcomeUnexpectedStatus ConfirmationOutcome = "unexpected_status"
)

type ConfirmationResult struct {
	Outcome       ConfirmationOutcome
	GatewayStatus string
}

// Delivery paths feeding the engine, used for logs and metrics labels.
const (
	PathWebhook  = "webhook"
	PathRedirect = "redirect"
)

type EventPublisher interface {
	PublishPaymentEvent(event publisher.PaymentEvent) error
}

type ConfirmationUsecase interface {
	FindPaymentByTransactionID(ctx context.Context, eventSlug, transactionID string) (*domain.Payment, error)
	ConfirmIfEligible(ctx context.Context, order *domain.Order, payment *domain.Payment, gatewayStatus, refno, path string) (ConfirmationResult, error)
}

// DefaultConfirmationUsecase decides whether a gateway status confirms a
// local payment. Both the webhook and the redirect return funnel through
// it, so the two paths cannot drift apart.
type DefaultConfirmationUsecase struct {
	PaymentRepo domain.PaymentRepository
	Publisher   EventPublisher
	Metrics     *metrics.PaymentMetrics
}

func NewDefaultConfirmationUsecase(
	paymentRepo domain.PaymentRepository,
	eventPublisher EventPublisher,
	paymentMetrics *metrics.PaymentMetrics) *DefaultConfirmationUsecase {

	return &DefaultConfirmationUsecase{
		PaymentRepo: paymentRepo,
		Publisher:   eventPublisher,
		Metrics:     paymentMetrics,
	}
}

func (uc *DefaultConfirmationUsecase) FindPaymentByTransactionID(ctx context.Context, eventSlug, transactionID string) (*domain.Payment, error) {
	return uc.PaymentRepo.FindByTransactionID(ctx, eventSlug, transactionID)
}

// ConfirmIfEligible validates the reference number, maps the gateway status
// and performs the idempotent confirm. Repeated or racing invocations for
// an already-confirmed payment succeed with OutcomeAlreadyConfirmed.
func (uc *DefaultConfirmationUsecase) ConfirmIfEligible(
	ctx context.Context,
	order *domain.Order,
	payment *domain.Payment,
	gatewayStatus, refno, path string,
) (ConfirmationResult, error) {

	if refno != order.Code && refno != payment.FullID() {
		slog.Error("refno mismatch on payment confirmation",
			"event", order.EventSlug,
			"order", order.Code,
			"payment_id", payment.ID,
			"refno", refno,
		)
		uc.recordOutcome(order.EventSlug, path, "refno_mismatch")
		return ConfirmationResult{}, fmt.Errorf("%w: got %q for order %q", domain.ErrRefnoMismatch, refno, order.Code)
	}

	if !domain.IsPaidStatus(gatewayStatus) {
		uc.recordOutcome(order.EventSlug, path, string(OutcomeUnexpectedStatus))
		return ConfirmationResult{Outcome: OutcomeUnexpectedStatus, GatewayStatus: gatewayStatus}, nil
	}

	alreadyConfirmed, err := uc.PaymentRepo.ConfirmPayment(ctx, payment.ID)
	if err != nil {
		return ConfirmationResult{}, err
	}

	if alreadyConfirmed {
		uc.recordOutcome(order.EventSlug, path, string(OutcomeAlreadyConfirmed))
		return ConfirmationResult{Outcome: OutcomeAlreadyConfirmed, GatewayStatus: gatewayStatus}, nil
	}

	slog.Info("payment confirmed",
		"event", order.EventSlug,
		"order", order.Code,
		"payment_id", payment.ID,
		"gateway_status", gatewayStatus,
		"path", path,
	)
	if uc.Metrics != nil {
		uc.Metrics.RecordConfirmed(order.EventSlug, path, gatewayStatus, payment.Currency, payment.AmountMinor)
	}
	uc.recordOutcome(order.EventSlug, path, string(OutcomeConfirmed))

	go func(event publisher.PaymentEvent) {
		if err := uc.Publisher.PublishPaymentEvent(event); err != nil {
			slog.Error("failed to publish PaymentEvent", "stage", "confirmation", "error", err.Error())
		}
	}(publisher.PaymentEvent{
		PaymentID:   payment.ID,
		OrderCode:   order.Code,
		EventSlug:   order.EventSlug,
		Type:        publisher.EventPaymentConfirmed,
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		Path:        path,
	})

	return ConfirmationResult{Outcome: OutcomeConfirmed, GatewayStatus: gatewayStatus}, nil
}

func (uc *DefaultConfirmationUsecase) recordOutcome(event, path, outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordOutcome(event, path, outcome)
	}
}
