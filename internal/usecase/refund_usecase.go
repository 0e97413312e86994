package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tickethub/datatrans-service/internal/domain"
	publisher "github.com/tickethub/datatrans-service/internal/infrastructure/kafka"
	"github.com/tickethub/datatrans-service/internal/infrastructure/metrics"
)

type CreateRefundInput struct {
	EventSlug   string
	OrderCode   string
	AmountMinor int64
}

type RefundUsecase interface {
	CreateRefund(ctx context.Context, input *CreateRefundInput) (*domain.Refund, error)
}

// DefaultRefundUsecase credits a confirmed payment back through the
// gateway. The refund's full id is the refno of the credit transaction.
type DefaultRefundUsecase struct {
	OrderRepo   domain.OrderRepository
	PaymentRepo domain.PaymentRepository
	RefundRepo  domain.RefundRepository
	Gateway     domain.Gateway
	Publisher   EventPublisher
	Metrics     *metrics.PaymentMetrics
}

func NewDefaultRefundUsecase(
	orderRepo domain.OrderRepository,
	paymentRepo domain.PaymentRepository,
	refundRepo domain.RefundRepository,
	gateway domain.Gateway,
	eventPublisher EventPublisher,
	paymentMetrics *metrics.PaymentMetrics) *DefaultRefundUsecase {

	return &DefaultRefundUsecase{
		OrderRepo:   orderRepo,
		PaymentRepo: paymentRepo,
		RefundRepo:  refundRepo,
		Gateway:     gateway,
		Publisher:   eventPublisher,
		Metrics:     paymentMetrics,
	}
}

func (uc *DefaultRefundUsecase) CreateRefund(ctx context.Context, input *CreateRefundInput) (*domain.Refund, error) {
	order, err := uc.OrderRepo.GetOrderByCode(ctx, input.EventSlug, input.OrderCode)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid() {
		return nil, domain.ErrOrderNotPayable
	}

	payment, err := uc.PaymentRepo.FindConfirmedByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	amount := input.AmountMinor
	if amount <= 0 {
		amount = payment.AmountMinor
	}
	if amount > payment.AmountMinor {
		return nil, domain.ErrRefundTooLarge
	}

	sequence, err := uc.RefundRepo.CountByPayment(ctx, payment.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	refund := &domain.Refund{
		ID:          uuid.NewString(),
		PaymentID:   payment.ID,
		OrderCode:   order.Code,
		Sequence:    int(sequence) + 1,
		AmountMinor: amount,
		Currency:    payment.Currency,
		Status:      domain.RefundStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.RefundRepo.CreateRefund(ctx, refund); err != nil {
		return nil, err
	}

	start := time.Now()
	err = uc.Gateway.CreditTransaction(ctx, payment.TransactionID, refund.FullID(), amount, payment.Currency)
	if uc.Metrics != nil {
		uc.Metrics.RecordGatewayRequest("credit transaction", start, err)
	}
	if err != nil {
		// refund stays CREATED so the credit can be retried by the operator
		return nil, err
	}

	if err := uc.RefundRepo.MarkRefundDone(ctx, refund.ID); err != nil {
		return nil, err
	}
	refund.Status = domain.RefundStatusDone

	slog.Info("refund credited",
		"event", order.EventSlug,
		"order", order.Code,
		"refund", refund.FullID(),
		"amount_minor", amount,
	)
	if uc.Metrics != nil {
		uc.Metrics.RecordRefund(order.EventSlug, payment.Currency)
	}

	go func(event publisher.PaymentEvent) {
		if err := uc.Publisher.PublishPaymentEvent(event); err != nil {
			slog.Error("failed to publish PaymentEvent", "stage", "refund", "error", err.Error())
		}
	}(publisher.PaymentEvent{
		PaymentID:   payment.ID,
		OrderCode:   order.Code,
		EventSlug:   order.EventSlug,
		Type:        publisher.EventRefundDone,
		AmountMinor: amount,
		Currency:    payment.Currency,
	})

	return refund, nil
}
