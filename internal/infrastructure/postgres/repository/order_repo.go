package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/mappers"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByCode(ctx context.Context, eventSlug, code string) (*domain.Order, error) {
	var order models.OrderModel
	err := r.DB.WithContext(ctx).First(&order, "event_slug = ? AND code = ?", eventSlug, code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	updatedOrderModel := models.OrderModel{
		ID:     orderID,
		Status: newStatus,
	}

	if err := r.DB.WithContext(ctx).Updates(&updatedOrderModel).Error; err != nil {
		return err
	}

	return nil
}

// ExpireOverdueOrders flips pending orders past their deadline to EXPIRED.
// Paid orders are never touched, whatever their deadline.
func (r *DefaultOrderRepository) ExpireOverdueOrders(ctx context.Context) (int64, error) {
	result := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("status = ? AND expires_at < ?", domain.OrderStatusPending, time.Now()).
		Update("status", domain.OrderStatusExpired)
	return result.RowsAffected, result.Error
}
