package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/analytics"
	courierclient "github.com/inkwell-letters/fulfillment/internal/clients/http/courier"
	accountsmemory "github.com/inkwell-letters/fulfillment/internal/domains/accounts/adapters/memory"
	accountspostgres "github.com/inkwell-letters/fulfillment/internal/domains/accounts/adapters/persistence/postgres"
	accountsapp "github.com/inkwell-letters/fulfillment/internal/domains/accounts/application"
	accountsports "github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	inventorymemory "github.com/inkwell-letters/fulfillment/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/inkwell-letters/fulfillment/internal/domains/inventory/adapters/persistence/postgres"
	inventoryapp "github.com/inkwell-letters/fulfillment/internal/domains/inventory/application"
	inventoryports "github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
	notificationsdirectory "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/directory"
	notificationsexternal "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/external"
	notificationsmemory "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/memory"
	notificationspostgres "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/persistence/postgres"
	notificationsapp "github.com/inkwell-letters/fulfillment/internal/domains/notifications/application"
	notificationsports "github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	ordersmemory "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/memory"
	ordersobs "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/persistence/postgres"
	ordersredisx "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/redisx"
	ordersworkflows "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	qcmemory "github.com/inkwell-letters/fulfillment/internal/domains/qc/adapters/memory"
	qcpostgres "github.com/inkwell-letters/fulfillment/internal/domains/qc/adapters/persistence/postgres"
	qcapp "github.com/inkwell-letters/fulfillment/internal/domains/qc/application"
	writersmemory "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/memory"
	writerspostgres "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/persistence/postgres"
	writersrates "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/rates"
	writersapp "github.com/inkwell-letters/fulfillment/internal/domains/writers/application"
	writersports "github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
	"github.com/inkwell-letters/fulfillment/internal/events"
	"github.com/inkwell-letters/fulfillment/internal/orchestrator"
	"github.com/inkwell-letters/fulfillment/internal/platform/migrations"
	platformobservability "github.com/inkwell-letters/fulfillment/internal/platform/observability"
	platformpostgres "github.com/inkwell-letters/fulfillment/internal/platform/postgres"
)

// Run boots the fulfillment HTTP API with observability, repositories, the
// event bus, and the shipment workflow wired.
func Run(ctx context.Context) error {
	const serviceName = "fulfillment-api"
	cfg := LoadConfig()

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()

	bus := events.NewBus(events.WithLogger(logger))
	defer bus.Wait()

	sink, closeSink := buildAnalyticsSink(cfg, logger)
	defer closeSink()

	accountService := buildAccountsService(db)
	engine := buildOrderEngine(cfg, db, bus, instruments, logger)
	inventoryService := buildInventoryService(db, bus)
	writerService := buildWritersService(db, engine, accountService)
	qcService := buildQCService(db, engine, logger)
	notificationService := buildNotificationsService(db, accountService, logger)

	orchestrator.Wire(bus, orchestrator.Deps{
		Inventory:     inventoryService,
		Writers:       writerService,
		Notifications: notificationService,
		Analytics:     sink,
		Logger:        logger,
	})

	courier := buildCourierSync(cfg, logger)
	var shipments ordersports.ShipmentDispatcher = ordersworkflows.NewInlineShipmentDispatcher(engine, courier)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, dispatching shipments inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		shipments = ordersworkflows.NewTemporalShipmentDispatcher(temporalClient)
		logger.Info("Temporal shipment dispatch enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(serviceName, Services{
		Orders:        engine,
		Shipments:     shipments,
		Writers:       writerService,
		QC:            qcService,
		Inventory:     inventoryService,
		Accounts:      accountService,
		Notifications: notificationService,
	})
	addr := ":" + cfg.Port
	logger.Info("fulfillment API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("fulfillment API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// connectDatabase dials postgres when a DSN is configured and runs schema
// migrations. A nil return means every context falls back to memory adapters.
func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return nil, func() {}
	}
	logger.Info("repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildOrderEngine(cfg Config, db *gorm.DB, bus *events.Bus, instruments *platformobservability.Instruments, logger *slog.Logger) ordersports.Service {
	var repo ordersports.Repository = ordersmemory.NewRepository()
	if db != nil {
		repo = orderspostgres.NewRepository(db)
	}
	var idem ordersports.IdempotencyStore = ordersmemory.NewIdempotencyStore()
	switch {
	case cfg.RedisAddr != "":
		idem = ordersredisx.NewIdempotencyStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.Info("payment idempotency store configured with redis", slog.String("addr", cfg.RedisAddr))
	case db != nil:
		idem = orderspostgres.NewIdempotencyStore(db)
	}
	return ordersobs.New(
		ordersapp.NewService(repo, idem, bus),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
}

func buildAccountsService(db *gorm.DB) accountsports.Service {
	if db != nil {
		return accountsapp.NewService(accountspostgres.NewRepository(db))
	}
	return accountsapp.NewService(accountsmemory.NewRepository())
}

func buildInventoryService(db *gorm.DB, bus *events.Bus) inventoryports.Service {
	var repo inventoryports.Repository = inventorymemory.NewRepository()
	if db != nil {
		repo = inventorypostgres.NewRepository(db)
	}
	return inventoryapp.NewService(repo, bus)
}

func buildWritersService(db *gorm.DB, engine ordersports.Service, accounts accountsports.Service) *writersapp.Service {
	var payouts writersports.Repository = writersmemory.NewRepository()
	if db != nil {
		payouts = writerspostgres.NewRepository(db)
	}
	return writersapp.NewService(engine, payouts, writersrates.NewAccountsRateProvider(accounts))
}

func buildQCService(db *gorm.DB, engine ordersports.Service, logger *slog.Logger) *qcapp.Service {
	if db != nil {
		return qcapp.NewService(engine, qcpostgres.NewRepository(db), logger)
	}
	return qcapp.NewService(engine, qcmemory.NewRepository(), logger)
}

func buildNotificationsService(db *gorm.DB, accounts accountsports.Service, logger *slog.Logger) *notificationsapp.Dispatcher {
	directory := notificationsdirectory.NewAccountsDirectory(accounts)
	var log notificationsports.Repository = notificationsmemory.NewRepository()
	if db != nil {
		log = notificationspostgres.NewRepository(db)
	}
	return notificationsapp.NewDispatcher(
		directory,
		log,
		&notificationsexternal.LogEmailSender{Logger: logger},
		&notificationsexternal.LogSMSSender{Logger: logger},
		&notificationsexternal.LogWhatsAppSender{Logger: logger},
		logger,
	)
}

func buildCourierSync(cfg Config, logger *slog.Logger) ordersports.CourierSync {
	if cfg.CourierBaseURL == "" {
		return nil
	}
	courier, err := courierclient.NewClient(cfg.CourierBaseURL, http.DefaultClient)
	if err != nil {
		logger.Warn("courier client misconfigured, pickups will not be booked", slog.String("error", err.Error()))
		return nil
	}
	return courier
}

func buildAnalyticsSink(cfg Config, logger *slog.Logger) (analytics.Sink, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, recording analytics in memory")
		return analytics.NewMemorySink(), func() {}
	}
	sink := analytics.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, 256, logger)
	logger.Info("analytics sink configured with kafka", slog.String("topic", cfg.KafkaTopic))
	return sink, sink.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
