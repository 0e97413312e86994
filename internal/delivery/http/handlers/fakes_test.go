package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/usecase"
)

// fakeBackend stands in for the order and confirmation usecases so handler
// tests exercise routing, auth ordering and response codes only.
type fakeBackend struct {
	mu       sync.Mutex
	orders   map[string]*domain.Order   // event/code
	payments map[string]*domain.Payment // event/transactionID

	lookupCalls    int
	confirmEffects int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		orders:   make(map[string]*domain.Order),
		payments: make(map[string]*domain.Payment),
	}
}

func (b *fakeBackend) addOrder(order *domain.Order) {
	b.orders[order.EventSlug+"/"+order.Code] = order
}

func (b *fakeBackend) addPayment(payment *domain.Payment) {
	b.payments[payment.EventSlug+"/"+payment.TransactionID] = payment
}

// usecase.OrderUsecase

func (b *fakeBackend) CreateOrder(_ context.Context, input *usecase.CreateOrderInput) (*domain.Order, error) {
	order := &domain.Order{
		ID:         fmt.Sprintf("order-%d", len(b.orders)+1),
		Code:       fmt.Sprintf("FAKE%d", len(b.orders)+1),
		EventSlug:  input.EventSlug,
		Status:     domain.OrderStatusPending,
		Currency:   input.Currency,
		TotalMinor: input.TotalMinor,
		Secret:     "s3cret",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	b.addOrder(order)
	return order, nil
}

func (b *fakeBackend) GetOrder(_ context.Context, eventSlug, code string) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if order, ok := b.orders[eventSlug+"/"+code]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (b *fakeBackend) ExpireOverdueOrders(_ context.Context) (int64, error) {
	return 0, nil
}

// usecase.ConfirmationUsecase

func (b *fakeBackend) FindPaymentByTransactionID(_ context.Context, eventSlug, transactionID string) (*domain.Payment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookupCalls++
	if payment, ok := b.payments[eventSlug+"/"+transactionID]; ok {
		copied := *payment
		return &copied, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (b *fakeBackend) ConfirmIfEligible(
	_ context.Context,
	order *domain.Order,
	payment *domain.Payment,
	gatewayStatus, refno, _ string,
) (usecase.ConfirmationResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if refno != order.Code && refno != payment.FullID() {
		return usecase.ConfirmationResult{}, domain.ErrRefnoMismatch
	}
	if !domain.IsPaidStatus(gatewayStatus) {
		return usecase.ConfirmationResult{Outcome: usecase.OutcomeUnexpectedStatus, GatewayStatus: gatewayStatus}, nil
	}

	stored := b.payments[payment.EventSlug+"/"+payment.TransactionID]
	if stored.Status == domain.PaymentStatusConfirmed {
		return usecase.ConfirmationResult{Outcome: usecase.OutcomeAlreadyConfirmed, GatewayStatus: gatewayStatus}, nil
	}
	stored.Status = domain.PaymentStatusConfirmed
	if order, ok := b.orders[payment.EventSlug+"/"+payment.OrderCode]; ok {
		order.Status = domain.OrderStatusPaid
	}
	b.confirmEffects++
	return usecase.ConfirmationResult{Outcome: usecase.OutcomeConfirmed, GatewayStatus: gatewayStatus}, nil
}

type fakeGateway struct {
	status    *domain.GatewayTransaction
	statusErr error
}

func (g *fakeGateway) CreateTransaction(_ context.Context, _ domain.CreateTransactionInput) (*domain.CreateTransactionOutput, error) {
	return nil, fmt.Errorf("not implemented")
}

func (g *fakeGateway) GetTransactionStatus(_ context.Context, _ string) (*domain.GatewayTransaction, error) {
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.status, nil
}

func (g *fakeGateway) CreditTransaction(_ context.Context, _, _ string, _ int64, _ string) error {
	return fmt.Errorf("not implemented")
}

func seedBackend(backend *fakeBackend) (*domain.Order, *domain.Payment) {
	order := &domain.Order{
		ID:         "order-1",
		Code:       "ABC-1",
		EventSlug:  "demo",
		Status:     domain.OrderStatusPending,
		Currency:   "CHF",
		TotalMinor: 1000,
		Secret:     "s3cret",
	}
	payment := &domain.Payment{
		ID:            "payment-1",
		OrderID:       order.ID,
		OrderCode:     order.Code,
		EventSlug:     order.EventSlug,
		Provider:      domain.ProviderDatatrans,
		Sequence:      1,
		AmountMinor:   1000,
		Currency:      "CHF",
		Status:        domain.PaymentStatusCreated,
		TransactionID: "tx123",
		CreatedAt:     time.Now(),
	}
	backend.addOrder(order)
	backend.addPayment(payment)
	return order, payment
}
