package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/tickethub/datatrans-service/internal/config"
	httpdelivery "github.com/tickethub/datatrans-service/internal/delivery/http"
	"github.com/tickethub/datatrans-service/internal/delivery/http/handlers"
	"github.com/tickethub/datatrans-service/internal/infrastructure/datatrans"
	publisher "github.com/tickethub/datatrans-service/internal/infrastructure/kafka"
	"github.com/tickethub/datatrans-service/internal/infrastructure/metrics"
	"github.com/tickethub/datatrans-service/internal/infrastructure/migrate"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres"
	"github.com/tickethub/datatrans-service/internal/infrastructure/postgres/repository"
	"github.com/tickethub/datatrans-service/internal/infrastructure/webhook"
	"github.com/tickethub/datatrans-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.PaymentDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.PaymentDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)

	// Init repos
	orderRepo := repository.NewDefaultOrderRepository(db)
	paymentRepo := repository.NewDefaultPaymentRepository(db)
	refundRepo := repository.NewDefaultRefundRepository(db)

	// Init gateway client and metrics
	gateway := datatrans.NewClient(cfg.Datatrans)
	paymentMetrics := metrics.NewPaymentMetrics()

	// Webhook signature verifier. A missing key is loud at startup and the
	// webhook endpoint refuses deliveries until it is fixed.
	verifier, err := webhook.NewVerifier(cfg.Datatrans.HMACSigningKey)
	if err != nil {
		slog.Error("datatrans webhook signature verification unavailable", "error", err.Error())
		verifier = nil
	}

	// Init usecases
	orderUsecase := usecase.NewDefaultOrderUsecase(orderRepo)
	checkoutUsecase := usecase.NewDefaultCheckoutUsecase(orderRepo, paymentRepo, gateway, cfg.Datatrans, paymentMetrics)
	confirmationUsecase := usecase.NewDefaultConfirmationUsecase(paymentRepo, pub, paymentMetrics)
	refundUsecase := usecase.NewDefaultRefundUsecase(orderRepo, paymentRepo, refundRepo, gateway, pub, paymentMetrics)

	// Init handlers
	orderHandler := handlers.NewOrderHandler(orderUsecase)
	paymentHandler := handlers.NewPaymentHandler(checkoutUsecase, refundUsecase)
	returnHandler := handlers.NewReturnHandler(orderUsecase, confirmationUsecase, gateway, cfg.Datatrans.PublicBaseURL, paymentMetrics)
	webhookHandler := handlers.NewWebhookHandler(verifier, orderUsecase, confirmationUsecase, paymentMetrics)

	r := httpdelivery.SetupRouter(orderHandler, paymentHandler, returnHandler, webhookHandler)

	// Expire overdue pending orders
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			expired, err := orderUsecase.ExpireOverdueOrders(context.Background())
			if err != nil {
				slog.Error("expiring overdue orders failed", "error", err.Error())
				continue
			}
			if expired > 0 {
				slog.Info("expired overdue orders", "count", expired)
			}
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("datatrans payment service started on %s\n", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
