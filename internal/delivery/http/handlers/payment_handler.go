package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/usecase"
)

type PaymentHandler struct {
	Checkout usecase.CheckoutUsecase
	Refunds  usecase.RefundUsecase
}

func NewPaymentHandler(checkout usecase.CheckoutUsecase, refunds usecase.RefundUsecase) *PaymentHandler {
	return &PaymentHandler{Checkout: checkout, Refunds: refunds}
}

// ExecutePayment opens a gateway transaction for the order and returns the
// hosted payment page the payer should be sent to.
func (h *PaymentHandler) ExecutePayment(c *gin.Context) {
	out, err := h.Checkout.ExecutePayment(c.Request.Context(), c.Param("event"), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, domain.ErrOrderAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "order already paid"})
		case errors.Is(err, domain.ErrOrderNotPayable):
			c.JSON(http.StatusConflict, gin.H{"error": "order is not payable"})
		case domain.IsGatewayError(err):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate payment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment_id":     out.PaymentID,
		"transaction_id": out.TransactionID,
		"start_url":      out.StartURL,
	})
}

type createRefundRequest struct {
	AmountMinor int64 `json:"amount_minor"`
}

func (h *PaymentHandler) CreateRefund(c *gin.Context) {
	var req createRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund data"})
		return
	}

	refund, err := h.Refunds.CreateRefund(c.Request.Context(), &usecase.CreateRefundInput{
		EventSlug:   c.Param("event"),
		OrderCode:   c.Param("code"),
		AmountMinor: req.AmountMinor,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no refundable payment found"})
		case errors.Is(err, domain.ErrOrderNotPayable):
			c.JSON(http.StatusConflict, gin.H{"error": "order is not paid"})
		case errors.Is(err, domain.ErrRefundTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "refund amount exceeds payment"})
		case domain.IsGatewayError(err):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refund"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"refund_id":    refund.ID,
		"refno":        refund.FullID(),
		"amount_minor": refund.AmountMinor,
		"status":       refund.Status,
	})
}
