package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/usecase"
)

type OrderHandler struct {
	Orders usecase.OrderUsecase
}

func NewOrderHandler(orders usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type createOrderRequest struct {
	Currency   string `json:"currency" binding:"required,len=3"`
	TotalMinor int64  `json:"total_minor" binding:"required,gt=0"`
	TTLMinutes int    `json:"ttl_minutes"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order data"})
		return
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), &usecase.CreateOrderInput{
		EventSlug:  c.Param("event"),
		Currency:   req.Currency,
		TotalMinor: req.TotalMinor,
		TTL:        time.Duration(req.TTLMinutes) * time.Minute,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, orderResponse(order))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("event"), c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

func orderResponse(order *domain.Order) gin.H {
	return gin.H{
		"code":        order.Code,
		"event":       order.EventSlug,
		"status":      order.Status,
		"currency":    order.Currency,
		"total_minor": order.TotalMinor,
		"secret":      order.Secret,
		"expires_at":  order.ExpiresAt,
	}
}
