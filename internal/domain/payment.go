package domain

import (
	"fmt"
	"time"
)

const ProviderDatatrans = "datatrans"

type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "CREATED"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCanceled  PaymentStatus = "CANCELED"
)

type Payment struct {
	ID            string
	OrderID       string
	OrderCode     string
	EventSlug     string
	Provider      string
	Sequence      int
	AmountMinor   int64
	Currency      string
	Status        PaymentStatus
	TransactionID string
	InfoJSON      string
	ConfirmedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullID is the merchant-side identifier a gateway transaction may carry
// as its reference number instead of the bare order code.
func (p *Payment) FullID() string {
	return fmt.Sprintf("%s-P-%d", p.OrderCode, p.Sequence)
}

type Refund struct {
	ID          string
	PaymentID   string
	OrderCode   string
	Sequence    int
	AmountMinor int64
	Currency    string
	Status      RefundStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RefundStatus string

const (
	RefundStatusCreated RefundStatus = "CREATED"
	RefundStatusDone    RefundStatus = "DONE"
)

// FullID is sent to the gateway as the refno of the credit transaction.
func (r *Refund) FullID() string {
	return fmt.Sprintf("%s-R-%d", r.OrderCode, r.Sequence)
}
