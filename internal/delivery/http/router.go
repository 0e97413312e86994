package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tickethub/datatrans-service/internal/delivery/http/handlers"
)

func SetupRouter(
	orderHandler *handlers.OrderHandler,
	paymentHandler *handlers.PaymentHandler,
	returnHandler *handlers.ReturnHandler,
	webhookHandler *handlers.WebhookHandler) *gin.Engine {

	r := gin.Default()

	api := r.Group("/api/events/:event")
	{
		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders/:code", orderHandler.GetOrder)
		api.POST("/orders/:code/payments", paymentHandler.ExecutePayment)
		api.POST("/orders/:code/refunds", paymentHandler.CreateRefund)
	}

	// Gateway-facing endpoints: browser return and server-to-server webhook.
	gateway := r.Group("/events/:event/datatrans")
	{
		gateway.GET("/return/:code", returnHandler.Return)
		gateway.POST("/webhook", webhookHandler.Webhook)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
