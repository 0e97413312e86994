package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusExpired  OrderStatus = "EXPIRED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

type Order struct {
	ID         string
	Code       string
	EventSlug  string
	Status     OrderStatus
	Currency   string
	TotalMinor int64
	Secret     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}
