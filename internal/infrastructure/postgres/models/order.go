package models

import (
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
)

type OrderModel struct {
	ID         string             `gorm:"primaryKey;type:uuid"`
	Code       string             `gorm:"uniqueIndex:idx_event_code"`
	EventSlug  string             `gorm:"uniqueIndex:idx_event_code;index:idx_event"`
	Status     domain.OrderStatus `gorm:"index:idx_order_status"`
	Currency   string
	TotalMinor int64
	Secret     string
	ExpiresAt  time.Time `gorm:"index:idx_order_expires"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
