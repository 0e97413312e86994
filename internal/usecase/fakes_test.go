package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
	publisher "github.com/tickethub/datatrans-service/internal/infrastructure/kafka"
)

type fakeStore struct {
	mu       sync.Mutex
	orders   map[string]*domain.Order   // keyed by order ID
	payments map[string]*domain.Payment // keyed by payment ID
	refunds  map[string]*domain.Refund

	confirmEffects int
	failedPayments []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[string]*domain.Order),
		payments: make(map[string]*domain.Payment),
		refunds:  make(map[string]*domain.Refund),
	}
}

func (s *fakeStore) addOrder(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

func (s *fakeStore) addPayment(payment *domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.ID] = payment
}

// domain.OrderRepository

func (s *fakeStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
	return nil
}

func (s *fakeStore) GetOrderByCode(_ context.Context, eventSlug, code string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.EventSlug == eventSlug && order.Code == code {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *fakeStore) UpdateOrderStatus(_ context.Context, orderID string, newStatus domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[orderID]; ok {
		order.Status = newStatus
	}
	return nil
}

func (s *fakeStore) ExpireOverdueOrders(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired int64
	for _, order := range s.orders {
		if order.Status == domain.OrderStatusPending && order.ExpiresAt.Before(time.Now()) {
			order.Status = domain.OrderStatusExpired
			expired++
		}
	}
	return expired, nil
}

// domain.PaymentRepository

func (s *fakeStore) CreatePayment(_ context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.ID] = payment
	return nil
}

func (s *fakeStore) GetPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment, ok := s.payments[paymentID]; ok {
		copied := *payment
		return &copied, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (s *fakeStore) FindByTransactionID(_ context.Context, eventSlug, transactionID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newest *domain.Payment
	for _, payment := range s.payments {
		if payment.EventSlug != eventSlug ||
			payment.TransactionID != transactionID ||
			payment.Provider != domain.ProviderDatatrans {
			continue
		}
		if newest == nil || payment.CreatedAt.After(newest.CreatedAt) {
			newest = payment
		}
	}
	if newest == nil {
		return nil, domain.ErrPaymentNotFound
	}
	copied := *newest
	return &copied, nil
}

func (s *fakeStore) FindConfirmedByOrder(_ context.Context, orderID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range s.payments {
		if payment.OrderID == orderID && payment.Status == domain.PaymentStatusConfirmed {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (s *fakeStore) CountByOrder(_ context.Context, orderID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, payment := range s.payments {
		if payment.OrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) SetTransactionInfo(_ context.Context, paymentID, transactionID, infoJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	payment.TransactionID = transactionID
	payment.InfoJSON = infoJSON
	return nil
}

func (s *fakeStore) ConfirmPayment(_ context.Context, paymentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[paymentID]
	if !ok {
		return false, domain.ErrPaymentNotFound
	}
	if payment.Status == domain.PaymentStatusConfirmed {
		return true, nil
	}
	now := time.Now()
	payment.Status = domain.PaymentStatusConfirmed
	payment.ConfirmedAt = &now
	if order, ok := s.orders[payment.OrderID]; ok {
		order.Status = domain.OrderStatusPaid
	}
	s.confirmEffects++
	return false, nil
}

func (s *fakeStore) FailPayment(_ context.Context, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment, ok := s.payments[paymentID]; ok && payment.Status == domain.PaymentStatusCreated {
		payment.Status = domain.PaymentStatusFailed
		s.failedPayments = append(s.failedPayments, paymentID)
	}
	return nil
}

// domain.RefundRepository

func (s *fakeStore) CreateRefund(_ context.Context, refund *domain.Refund) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refunds[refund.ID] = refund
	return nil
}

func (s *fakeStore) CountByPayment(_ context.Context, paymentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, refund := range s.refunds {
		if refund.PaymentID == paymentID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) MarkRefundDone(_ context.Context, refundID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if refund, ok := s.refunds[refundID]; ok {
		refund.Status = domain.RefundStatusDone
	}
	return nil
}

func (s *fakeStore) paymentStatus(paymentID string) domain.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[paymentID].Status
}

func (s *fakeStore) orderStatus(orderID string) domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[orderID].Status
}

func (s *fakeStore) confirmEffectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmEffects
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publisher.PaymentEvent
}

func (p *fakePublisher) PublishPaymentEvent(event publisher.PaymentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fakeGateway struct {
	mu sync.Mutex

	createOut *domain.CreateTransactionOutput
	createErr error
	createIn  []domain.CreateTransactionInput

	statusOut *domain.GatewayTransaction
	statusErr error

	creditErr   error
	creditCalls []creditCall
}

type creditCall struct {
	transactionID string
	refno         string
	amountMinor   int64
	currency      string
}

func (g *fakeGateway) CreateTransaction(_ context.Context, in domain.CreateTransactionInput) (*domain.CreateTransactionOutput, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createIn = append(g.createIn, in)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.createOut, nil
}

func (g *fakeGateway) GetTransactionStatus(_ context.Context, _ string) (*domain.GatewayTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return g.statusOut, nil
}

func (g *fakeGateway) CreditTransaction(_ context.Context, transactionID, refno string, amountMinor int64, currency string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creditCalls = append(g.creditCalls, creditCall{transactionID, refno, amountMinor, currency})
	return g.creditErr
}
