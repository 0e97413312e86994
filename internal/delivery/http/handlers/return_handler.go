package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/metrics"
	"github.com/tickethub/datatrans-service/internal/usecase"
)

// ReturnHandler is the synchronous confirmation path: the payer's browser
// comes back from the hosted payment page. Possession of the order code in
// the gateway-supplied return URL authenticates the request; the payer ends
// up on the order page either way.
type ReturnHandler struct {
	Orders        usecase.OrderUsecase
	Confirmations usecase.ConfirmationUsecase
	Gateway       domain.Gateway
	PublicBaseURL string
	Metrics       *metrics.PaymentMetrics
}

func NewReturnHandler(
	orders usecase.OrderUsecase,
	confirmations usecase.ConfirmationUsecase,
	gateway domain.Gateway,
	publicBaseURL string,
	paymentMetrics *metrics.PaymentMetrics) *ReturnHandler {

	return &ReturnHandler{
		Orders:        orders,
		Confirmations: confirmations,
		Gateway:       gateway,
		PublicBaseURL: publicBaseURL,
		Metrics:       paymentMetrics,
	}
}

func (h *ReturnHandler) Return(c *gin.Context) {
	ctx := c.Request.Context()
	eventSlug := c.Param("event")

	order, err := h.Orders.GetOrder(ctx, eventSlug, c.Param("code"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	// Webhook may have won the race already.
	if order.IsPaid() {
		h.redirectToOrder(c, order, "")
		return
	}

	transactionID := c.Query("datatransTrxId")
	if transactionID == "" {
		h.redirectToOrder(c, order, "payment_failed")
		return
	}

	start := time.Now()
	transaction, err := h.Gateway.GetTransactionStatus(ctx, transactionID)
	if h.Metrics != nil {
		h.Metrics.RecordGatewayRequest("transaction status", start, err)
	}
	if err != nil {
		slog.Error("transaction status fetch failed on return",
			"event", eventSlug, "order", order.Code, "error", err.Error())
		h.redirectToOrder(c, order, "payment_failed")
		return
	}

	payment, err := h.Confirmations.FindPaymentByTransactionID(ctx, eventSlug, transactionID)
	if err != nil {
		slog.Error("no payment for returned transaction",
			"event", eventSlug, "order", order.Code, "transaction_id", transactionID)
		h.redirectToOrder(c, order, "payment_failed")
		return
	}

	result, err := h.Confirmations.ConfirmIfEligible(
		ctx, order, payment, transaction.Status, transaction.RefNo, usecase.PathRedirect)
	if err != nil {
		h.redirectToOrder(c, order, "payment_failed")
		return
	}
	if result.Outcome == usecase.OutcomeUnexpectedStatus {
		h.redirectToOrder(c, order, "unexpected_status")
		return
	}

	// Re-read so the paid flag reflects the state after confirmation.
	order, err = h.Orders.GetOrder(ctx, eventSlug, order.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	h.redirectToOrder(c, order, "")
}

func (h *ReturnHandler) redirectToOrder(c *gin.Context, order *domain.Order, errCode string) {
	target := fmt.Sprintf("%s/events/%s/order/%s/%s/",
		h.PublicBaseURL, order.EventSlug, order.Code, order.Secret)
	switch {
	case order.IsPaid():
		target += "?paid=yes"
	case errCode != "":
		target += "?error=" + errCode
	}
	c.Redirect(http.StatusFound, target)
}
