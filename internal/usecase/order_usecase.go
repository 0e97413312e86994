package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/tickethub/datatrans-service/internal/domain"
)

// Order code alphabet avoids 0/O/1/I ambiguity for codes read over the phone.
const orderCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ3789"

type CreateOrderInput struct {
	EventSlug  string
	Currency   string
	TotalMinor int64
	TTL        time.Duration
}

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, eventSlug, code string) (*domain.Order, error)
	ExpireOverdueOrders(ctx context.Context) (int64, error)
}

type DefaultOrderUsecase struct {
	OrderRepo domain.OrderRepository
}

func NewDefaultOrderUsecase(orderRepo domain.OrderRepository) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{OrderRepo: orderRepo}
}

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *CreateOrderInput) (*domain.Order, error) {
	codeGenerator, err := nanoid.CustomASCII(orderCodeAlphabet, 5)
	if err != nil {
		return nil, err
	}
	secretGenerator, err := nanoid.Standard(16)
	if err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	now := time.Now()
	order := &domain.Order{
		ID:         uuid.NewString(),
		Code:       codeGenerator(),
		EventSlug:  input.EventSlug,
		Status:     domain.OrderStatusPending,
		Currency:   input.Currency,
		TotalMinor: input.TotalMinor,
		Secret:     secretGenerator(),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (uc *DefaultOrderUsecase) GetOrder(ctx context.Context, eventSlug, code string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByCode(ctx, eventSlug, code)
}

func (uc *DefaultOrderUsecase) ExpireOverdueOrders(ctx context.Context) (int64, error) {
	return uc.OrderRepo.ExpireOverdueOrders(ctx)
}
