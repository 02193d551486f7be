package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quickeats/fulfillment/internal/dal/feecalc"
	"github.com/quickeats/fulfillment/internal/dal/postgres"
	"github.com/quickeats/fulfillment/internal/dal/rabbitmq"
	notificationrepo "github.com/quickeats/fulfillment/internal/dal/repositories/notification/postgres"
	"github.com/quickeats/fulfillment/internal/otel"
	"github.com/quickeats/fulfillment/internal/service/services/fulfillmentsvc"
	"github.com/quickeats/fulfillment/internal/service/services/paymentsvc"
	"github.com/quickeats/fulfillment/internal/service/services/voucherledger"
	httptransport "github.com/quickeats/fulfillment/internal/transport/http"
	"github.com/quickeats/fulfillment/internal/worker/outbox"
)

// App represents the application.
type App struct {
	fulfillmentSvc *fulfillmentsvc.FulfillmentService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outbox.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	ledger := voucherledger.MustNewLedger(
		voucherledger.WithPostgresClient(postgresClient),
	)

	fulfillmentSvc := fulfillmentsvc.MustNewFulfillmentService(
		fulfillmentsvc.WithPostgresClient(postgresClient),
		fulfillmentsvc.WithVoucherLedger(ledger),
		fulfillmentsvc.WithFeeCalculator(feecalc.NewClient()),
	)

	paymentSvc := paymentsvc.MustNewReconciler(
		paymentsvc.WithPostgresClient(postgresClient),
		paymentsvc.WithOrderTransitions(fulfillmentSvc),
	)

	outboxWorker := outbox.NewWorker(
		notificationrepo.NewPostgresNotificationRepository(postgresClient.Pool()),
		rabbitClient,
	)

	transport := httptransport.NewHTTPTransport(fulfillmentSvc, ledger, paymentSvc)
	transport.RegisterRoutes()

	return &App{
		fulfillmentSvc: fulfillmentSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
