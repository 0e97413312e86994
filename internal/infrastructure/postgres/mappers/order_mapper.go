package mappers

import (
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/models"
)

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:         order.ID,
		Code:       order.Code,
		EventSlug:  order.EventSlug,
		Status:     order.Status,
		Currency:   order.Currency,
		TotalMinor: order.TotalMinor,
		Secret:     order.Secret,
		ExpiresAt:  order.ExpiresAt,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:         model.ID,
		Code:       model.Code,
		EventSlug:  model.EventSlug,
		Status:     model.Status,
		Currency:   model.Currency,
		TotalMinor: model.TotalMinor,
		Secret:     model.Secret,
		ExpiresAt:  model.ExpiresAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
