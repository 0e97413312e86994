package domain

import "context"

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByCode(ctx context.Context, eventSlug, code string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus OrderStatus) error
	ExpireOverdueOrders(ctx context.Context) (int64, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByID(ctx context.Context, paymentID string) (*Payment, error)
	// FindByTransactionID returns the most recent datatrans payment under
	// the event whose stored info references the transaction id.
	FindByTransactionID(ctx context.Context, eventSlug, transactionID string) (*Payment, error)
	FindConfirmedByOrder(ctx context.Context, orderID string) (*Payment, error)
	CountByOrder(ctx context.Context, orderID string) (int64, error)
	SetTransactionInfo(ctx context.Context, paymentID, transactionID, infoJSON string) error
	// ConfirmPayment atomically transitions the payment to CONFIRMED and its
	// order to PAID. Reports alreadyConfirmed instead of an error when the
	// payment was confirmed before; safe under concurrent invocation.
	ConfirmPayment(ctx context.Context, paymentID string) (alreadyConfirmed bool, err error)
	FailPayment(ctx context.Context, paymentID string) error
}

type RefundRepository interface {
	CreateRefund(ctx context.Context, refund *Refund) error
	CountByPayment(ctx context.Context, paymentID string) (int64, error)
	MarkRefundDone(ctx context.Context, refundID string) error
}
