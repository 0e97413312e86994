package repository

import (
	"context"

	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/mappers"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRefundRepository struct {
	DB *gorm.DB
}

func NewDefaultRefundRepository(db *gorm.DB) *DefaultRefundRepository {
	return &DefaultRefundRepository{DB: db}
}

func (r *DefaultRefundRepository) CreateRefund(ctx context.Context, refund *domain.Refund) error {
	refundModel := mappers.ToGORMRefund(refund)
	if err := r.DB.WithContext(ctx).Create(refundModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultRefundRepository) CountByPayment(ctx context.Context, paymentID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.RefundModel{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count, err
}

func (r *DefaultRefundRepository) MarkRefundDone(ctx context.Context, refundID string) error {
	return r.DB.WithContext(ctx).
		Model(&models.RefundModel{}).
		Where("id = ?", refundID).
		Update("status", domain.RefundStatusDone).Error
}
