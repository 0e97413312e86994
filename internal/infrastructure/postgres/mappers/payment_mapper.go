package mappers

import (
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/models"
)

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		Provider:      payment.Provider,
		Sequence:      payment.Sequence,
		AmountMinor:   payment.AmountMinor,
		Currency:      payment.Currency,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		Info:          payment.InfoJSON,
		ConfirmedAt:   payment.ConfirmedAt,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	payment := &domain.Payment{
		ID:            model.ID,
		OrderID:       model.OrderID,
		Provider:      model.Provider,
		Sequence:      model.Sequence,
		AmountMinor:   model.AmountMinor,
		Currency:      model.Currency,
		Status:        model.Status,
		TransactionID: model.TransactionID,
		InfoJSON:      model.Info,
		ConfirmedAt:   model.ConfirmedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.Order.ID != "" {
		payment.OrderCode = model.Order.Code
		payment.EventSlug = model.Order.EventSlug
	}
	return payment
}

func ToGORMRefund(refund *domain.Refund) *models.RefundModel {
	return &models.RefundModel{
		ID:          refund.ID,
		PaymentID:   refund.PaymentID,
		OrderCode:   refund.OrderCode,
		Sequence:    refund.Sequence,
		AmountMinor: refund.AmountMinor,
		Currency:    refund.Currency,
		Status:      refund.Status,
		CreatedAt:   refund.CreatedAt,
		UpdatedAt:   refund.UpdatedAt,
	}
}

func ToDomainRefund(model *models.RefundModel) *domain.Refund {
	return &domain.Refund{
		ID:          model.ID,
		PaymentID:   model.PaymentID,
		OrderCode:   model.OrderCode,
		Sequence:    model.Sequence,
		AmountMinor: model.AmountMinor,
		Currency:    model.Currency,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
