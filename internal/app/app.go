package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nordkart/checkout-svc/internal/dal/orderstore"
	"github.com/nordkart/checkout-svc/internal/dal/postgres"
	"github.com/nordkart/checkout-svc/internal/dal/rabbitmq"
	orderrepo "github.com/nordkart/checkout-svc/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/nordkart/checkout-svc/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/nordkart/checkout-svc/internal/dal/repositories/product/postgres"
	stripegateway "github.com/nordkart/checkout-svc/internal/gateway/stripe"
	"github.com/nordkart/checkout-svc/internal/otel"
	"github.com/nordkart/checkout-svc/internal/service/services/checkoutsvc"
	httptransport "github.com/nordkart/checkout-svc/internal/transport/http"
	outboxworker "github.com/nordkart/checkout-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	checkoutSvc    *checkoutsvc.CheckoutService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application. All collaborators, the Stripe client
// included, are constructed here and injected; nothing lives in package-level
// state.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()
	stripeGateway := stripegateway.MustNewGateway()

	checkoutSvc := checkoutsvc.MustNewCheckoutService(
		checkoutsvc.WithProductRepository(productrepo.NewPostgresProductRepository(postgresClient.Pool())),
		checkoutsvc.WithOrderRepository(orderrepo.NewPostgresOrderRepository(postgresClient.Pool())),
		checkoutsvc.WithOrderStore(orderstore.NewOrderStore(postgresClient)),
		checkoutsvc.WithPaymentGateway(stripeGateway),
	)

	transport := httptransport.NewHTTPTransport(checkoutSvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.Pool()),
		rabbitMqClient,
	)

	return &App{
		checkoutSvc:    checkoutSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops components in dependency order: HTTP server, outbox
// worker, RabbitMQ, PostgreSQL, OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
