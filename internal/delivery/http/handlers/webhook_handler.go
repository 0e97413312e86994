package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tickethub/datatrans-service/internal/domain"
	"github.com/tickethub/datatrans-service/internal/infrastructure/metrics"
	"github.com/tickethub/datatrans-service/internal/infrastructure/webhook"
	"github.com/tickethub/datatrans-service/internal/usecase"
)

const signatureHeader = "Datatrans-Signature"

// WebhookHandler is the asynchronous confirmation path: server-to-server
// status pushes from the gateway. The delivery is authenticated by its HMAC
// signature before anything is looked up, so unauthenticated callers learn
// nothing about which orders exist.
type WebhookHandler struct {
	Verifier      *webhook.Verifier
	Orders        usecase.OrderUsecase
	Confirmations usecase.ConfirmationUsecase
	Metrics       *metrics.PaymentMetrics
}

func NewWebhookHandler(
	verifier *webhook.Verifier,
	orders usecase.OrderUsecase,
	confirmations usecase.ConfirmationUsecase,
	paymentMetrics *metrics.PaymentMetrics) *WebhookHandler {

	return &WebhookHandler{
		Verifier:      verifier,
		Orders:        orders,
		Confirmations: confirmations,
		Metrics:       paymentMetrics,
	}
}

type webhookPayload struct {
	TransactionID string `json:"transactionId"`
	RefNo         string `json:"refno"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
}

func (h *WebhookHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()
	eventSlug := c.Param("event")

	header := c.GetHeader(signatureHeader)
	if header == "" {
		h.reject(c, http.StatusForbidden, "missing_signature")
		return
	}

	// Accepting unsigned webhooks because the key was never configured
	// would be an invisible security hole. Refuse and page the operator.
	if h.Verifier == nil {
		slog.Error("datatrans hmac signing key not configured, cannot verify webhook signature",
			"event", eventSlug)
		h.reject(c, http.StatusInternalServerError, "signing_key_missing")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.reject(c, http.StatusBadRequest, "unreadable_body")
		return
	}

	if err := h.Verifier.Verify(header, body); err != nil {
		slog.Error("webhook signature verification failed", "event", eventSlug)
		h.reject(c, http.StatusForbidden, "invalid_signature")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.reject(c, http.StatusBadRequest, "malformed_payload")
		return
	}
	if payload.TransactionID == "" || payload.Status == "" {
		h.reject(c, http.StatusBadRequest, "malformed_payload")
		return
	}

	slog.Info("datatrans webhook received",
		"event", eventSlug,
		"transaction_id", payload.TransactionID,
		"status", payload.Status,
	)

	payment, err := h.Confirmations.FindPaymentByTransactionID(ctx, eventSlug, payload.TransactionID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			h.reject(c, http.StatusNotFound, "unknown_transaction")
			return
		}
		c.String(http.StatusInternalServerError, "failed to resolve payment")
		return
	}

	order, err := h.Orders.GetOrder(ctx, eventSlug, payment.OrderCode)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load order")
		return
	}

	result, err := h.Confirmations.ConfirmIfEligible(
		ctx, order, payment, payload.Status, payload.RefNo, usecase.PathWebhook)
	if err != nil {
		if errors.Is(err, domain.ErrRefnoMismatch) {
			c.String(http.StatusConflict, "refno does not match order")
			return
		}
		c.String(http.StatusInternalServerError, "confirmation failed")
		return
	}

	// An unknown status is not processed; answering non-2xx keeps the
	// gateway retrying until the transaction reaches a final state.
	if result.Outcome == usecase.OutcomeUnexpectedStatus {
		c.String(http.StatusInternalServerError, "unexpected payment status: %s", result.GatewayStatus)
		return
	}

	c.String(http.StatusOK, "okay")
}

func (h *WebhookHandler) reject(c *gin.Context, status int, reason string) {
	if h.Metrics != nil {
		h.Metrics.RecordWebhookRejected(reason)
	}
	c.String(status, "rejected")
}
