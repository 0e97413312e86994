package models

import (
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
)

type PaymentModel struct {
	ID            string     `gorm:"primaryKey;type:uuid"`
	OrderID       string     `gorm:"type:uuid;not null;index"`
	Order         OrderModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Provider      string     `gorm:"index:idx_payment_tx"`
	Sequence      int
	AmountMinor   int64
	Currency      string
	Status        domain.PaymentStatus `gorm:"index"`
	TransactionID string               `gorm:"index:idx_payment_tx"`
	Info          string               `gorm:"type:jsonb"`
	ConfirmedAt   *time.Time
	CreatedAt     time.Time `gorm:"index:idx_payment_created"`
	UpdatedAt     time.Time
}

type RefundModel struct {
	ID          string       `gorm:"primaryKey;type:uuid"`
	PaymentID   string       `gorm:"type:uuid;not null;index"`
	Payment     PaymentModel `gorm:"foreignKey:PaymentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	OrderCode   string
	Sequence    int
	AmountMinor int64
	Currency    string
	Status      domain.RefundStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
