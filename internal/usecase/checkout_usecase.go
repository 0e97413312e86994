package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tickethub/datatrans-service/internal/config"
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/metrics"
)

type ExecutePaymentOutput struct {
	PaymentID     string
	TransactionID string
	StartURL      string
}

type CheckoutUsecase interface {
	ExecutePayment(ctx context.Context, eventSlug, orderCode string) (*ExecutePaymentOutput, error)
}

// paymentInfo is what gets persisted in the payment's info blob; the
// transaction identifier inside is the key later confirmations look up.
type paymentInfo struct {
	Transaction string `json:"transaction"`
}

// DefaultCheckoutUsecase initiates a gateway transaction for an unpaid
// order and binds the resulting transaction id to a fresh payment.
type DefaultCheckoutUsecase struct {
	OrderRepo   domain.OrderRepository
	PaymentRepo domain.PaymentRepository
	Gateway     domain.Gateway
	Datatrans   config.Datatrans
	Metrics     *metrics.PaymentMetrics
}

func NewDefaultCheckoutUsecase(
	orderRepo domain.OrderRepository,
	paymentRepo domain.PaymentRepository,
	gateway domain.Gateway,
	datatransConfig config.Datatrans,
	paymentMetrics *metrics.PaymentMetrics) *DefaultCheckoutUsecase {

	return &DefaultCheckoutUsecase{
		OrderRepo:   orderRepo,
		PaymentRepo: paymentRepo,
		Gateway:     gateway,
		Datatrans:   datatransConfig,
		Metrics:     paymentMetrics,
	}
}

func (uc *DefaultCheckoutUsecase) ExecutePayment(ctx context.Context, eventSlug, orderCode string) (*ExecutePaymentOutput, error) {
	order, err := uc.OrderRepo.GetOrderByCode(ctx, eventSlug, orderCode)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, domain.ErrOrderAlreadyPaid
	}
	if order.Status != domain.OrderStatusPending {
		return nil, domain.ErrOrderNotPayable
	}

	sequence, err := uc.PaymentRepo.CountByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		OrderCode:   order.Code,
		EventSlug:   order.EventSlug,
		Provider:    domain.ProviderDatatrans,
		Sequence:    int(sequence) + 1,
		AmountMinor: order.TotalMinor,
		Currency:    order.Currency,
		Status:      domain.PaymentStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.PaymentRepo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	returnBase := fmt.Sprintf("%s/events/%s/datatrans/return/%s",
		uc.Datatrans.PublicBaseURL, order.EventSlug, order.Code)

	start := time.Now()
	out, err := uc.Gateway.CreateTransaction(ctx, domain.CreateTransactionInput{
		RefNo:          order.Code,
		AmountMinor:    order.TotalMinor,
		Currency:       order.Currency,
		PaymentMethods: uc.paymentMethods(),
		Redirect: domain.RedirectURLs{
			SuccessURL: returnBase + "?state=success",
			CancelURL:  returnBase + "?state=cancel",
			ErrorURL:   returnBase + "?state=error",
		},
		WebhookURL: fmt.Sprintf("%s/events/%s/datatrans/webhook",
			uc.Datatrans.PublicBaseURL, order.EventSlug),
	})
	if uc.Metrics != nil {
		uc.Metrics.RecordGatewayRequest("create transaction", start, err)
	}
	if err != nil {
		if failErr := uc.PaymentRepo.FailPayment(ctx, payment.ID); failErr != nil {
			slog.Error("failed to mark payment failed after gateway error",
				"payment_id", payment.ID, "error", failErr.Error())
		}
		return nil, err
	}

	info, err := json.Marshal(paymentInfo{Transaction: out.TransactionID})
	if err != nil {
		return nil, err
	}
	if err := uc.PaymentRepo.SetTransactionInfo(ctx, payment.ID, out.TransactionID, string(info)); err != nil {
		return nil, err
	}

	slog.Info("payment initiated",
		"event", order.EventSlug,
		"order", order.Code,
		"payment_id", payment.ID,
		"transaction_id", out.TransactionID,
	)

	return &ExecutePaymentOutput{
		PaymentID:     payment.ID,
		TransactionID: out.TransactionID,
		StartURL:      out.StartURL,
	}, nil
}

// The sandbox only supports the test card method; production is restricted
// to TWINT unless the configuration says otherwise.
func (uc *DefaultCheckoutUsecase) paymentMethods() []string {
	if len(uc.Datatrans.PaymentMethods) > 0 {
		return uc.Datatrans.PaymentMethods
	}
	if uc.Datatrans.Sandbox {
		return []string{"VIS"}
	}
	return []string{"TWI"}
}
