package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	courierclient "github.com/inkwell-letters/fulfillment/internal/clients/http/courier"
	ordersmemory "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/memory"
	ordersobs "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
	"github.com/inkwell-letters/fulfillment/internal/platform/migrations"
	platformobservability "github.com/inkwell-letters/fulfillment/internal/platform/observability"
	platformpostgres "github.com/inkwell-letters/fulfillment/internal/platform/postgres"
	shippingactivities "github.com/inkwell-letters/fulfillment/internal/platform/temporal/activities/shipping"
	shippingworkflows "github.com/inkwell-letters/fulfillment/internal/platform/temporal/workflows/shipping"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "fulfillment-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	bus := events.NewBus(events.WithLogger(logger))
	defer bus.Wait()

	engine, cleanupRepo := buildOrderEngine(ctx, bus, instruments, logger)
	defer cleanupRepo()
	activities := shippingactivities.NewActivities(engine, buildCourierSync(logger))

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, shippingworkflows.ShipmentDispatchTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(shippingworkflows.ShipmentDispatchWorkflow, workflow.RegisterOptions{Name: shippingworkflows.ShipmentDispatchWorkflowName})
	w.RegisterActivityWithOptions(activities.MarkShipped, activity.RegisterOptions{Name: shippingactivities.MarkShippedActivityName})
	w.RegisterActivityWithOptions(activities.BookCourierPickup, activity.RegisterOptions{Name: shippingactivities.BookCourierPickupActivityName})

	logger.Info("worker listening", slog.String("taskQueue", shippingworkflows.ShipmentDispatchTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderEngine(ctx context.Context, bus *events.Bus, instruments *platformobservability.Instruments, logger *slog.Logger) (ordersports.Service, func()) {
	var repo ordersports.Repository = ordersmemory.NewRepository()
	cleanup := func() {}
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
	} else if db, err := platformpostgres.Connect(ctx, dsn); err != nil {
		logger.Warn("worker failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
	} else if sqlDB, err := db.DB(); err != nil {
		logger.Warn("worker failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
	} else if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to migrate schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
	} else {
		logger.Info("worker order repository configured with postgres")
		repo = orderspostgres.NewRepository(db)
		cleanup = func() { _ = sqlDB.Close() }
	}
	engine := ordersobs.New(
		ordersapp.NewService(repo, ordersmemory.NewIdempotencyStore(), bus),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return engine, cleanup
}

func buildCourierSync(logger *slog.Logger) ordersports.CourierSync {
	baseURL := strings.TrimSpace(os.Getenv("COURIER_BASE_URL"))
	if baseURL == "" {
		logger.Warn("COURIER_BASE_URL not set, courier pickups will not be booked")
		return nil
	}
	courier, err := courierclient.NewClient(baseURL, http.DefaultClient)
	if err != nil {
		logger.Warn("courier client misconfigured, pickups will not be booked", slog.String("error", err.Error()))
		return nil
	}
	return courier
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
