package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/mappers"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	paymentModel := mappers.ToGORMPayment(payment)
	if err := r.DB.WithContext(ctx).Create(paymentModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultPaymentRepository) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	err := r.DB.WithContext(ctx).Preload("Order").First(&payment, "id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return mappers.ToDomainPayment(&payment), nil
}

// FindByTransactionID resolves the payment a gateway transaction belongs to.
// Retried checkouts leave abandoned payments behind for the same order, so
// the newest matching attempt wins.
func (r *DefaultPaymentRepository) FindByTransactionID(ctx context.Context, eventSlug, transactionID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	err := r.DB.WithContext(ctx).
		Preload("Order").
		Joins("JOIN order_models ON order_models.id = payment_models.order_id").
		Where("order_models.event_slug = ?", eventSlug).
		Where("payment_models.transaction_id = ?", transactionID).
		Where("payment_models.provider = ?", domain.ProviderDatatrans).
		Order("payment_models.created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) FindConfirmedByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	var payment models.PaymentModel
	err := r.DB.WithContext(ctx).
		Preload("Order").
		Where("order_id = ? AND status = ?", orderID, domain.PaymentStatusConfirmed).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return mappers.ToDomainPayment(&payment), nil
}

func (r *DefaultPaymentRepository) CountByOrder(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func (r *DefaultPaymentRepository) SetTransactionInfo(ctx context.Context, paymentID, transactionID, infoJSON string) error {
	return r.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Updates(map[string]any{
			"transaction_id": transactionID,
			"info":           infoJSON,
		}).Error
}

// ConfirmPayment is the critical section of the confirmation flow. The
// payment row is locked FOR UPDATE so that a webhook delivery and a browser
// return racing on the same transaction serialize here: the loser of the
// race sees CONFIRMED and reports alreadyConfirmed instead of confirming a
// second time.
func (r *DefaultPaymentRepository) ConfirmPayment(ctx context.Context, paymentID string) (bool, error) {
	var alreadyConfirmed bool

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.PaymentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}

		if payment.Status == domain.PaymentStatusConfirmed {
			alreadyConfirmed = true
			return nil
		}

		now := time.Now()
		if err := tx.Model(&models.PaymentModel{}).
			Where("id = ?", paymentID).
			Updates(map[string]any{
				"status":       domain.PaymentStatusConfirmed,
				"confirmed_at": &now,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.OrderModel{}).
			Where("id = ?", payment.OrderID).
			Update("status", domain.OrderStatusPaid).Error
	})

	return alreadyConfirmed, err
}

func (r *DefaultPaymentRepository) FailPayment(ctx context.Context, paymentID string) error {
	return r.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", paymentID, domain.PaymentStatusCreated).
		Update("status", domain.PaymentStatusFailed).Error
}
