//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/inkwell-letters/fulfillment/test/pact"

	"github.com/inkwell-letters/fulfillment/internal/app/api"
	accountsmemory "github.com/inkwell-letters/fulfillment/internal/domains/accounts/adapters/memory"
	accountsapp "github.com/inkwell-letters/fulfillment/internal/domains/accounts/application"
	inventorymemory "github.com/inkwell-letters/fulfillment/internal/domains/inventory/adapters/memory"
	inventoryapp "github.com/inkwell-letters/fulfillment/internal/domains/inventory/application"
	notificationsdirectory "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/directory"
	notificationsexternal "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/external"
	notificationsmemory "github.com/inkwell-letters/fulfillment/internal/domains/notifications/adapters/memory"
	notificationsapp "github.com/inkwell-letters/fulfillment/internal/domains/notifications/application"
	ordersmemory "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	qcmemory "github.com/inkwell-letters/fulfillment/internal/domains/qc/adapters/memory"
	qcapp "github.com/inkwell-letters/fulfillment/internal/domains/qc/application"
	writersmemory "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/memory"
	writersrates "github.com/inkwell-letters/fulfillment/internal/domains/writers/adapters/rates"
	writersapp "github.com/inkwell-letters/fulfillment/internal/domains/writers/application"
	"github.com/inkwell-letters/fulfillment/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestFulfillmentProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *ordersmemory.Repository
	server *httptest.Server
}

// newContractProviderApp assembles the API against memory adapters, the same
// way the process boots when no backing services are configured.
func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	bus := events.NewBus(events.WithLogger(logger))
	t.Cleanup(bus.Wait)

	orderRepo := ordersmemory.NewRepository()
	engine := ordersapp.NewService(orderRepo, ordersmemory.NewIdempotencyStore(), bus)
	accountService := accountsapp.NewService(accountsmemory.NewRepository())
	inventoryService := inventoryapp.NewService(inventorymemory.NewRepository(), bus)
	writerService := writersapp.NewService(engine, writersmemory.NewRepository(), writersrates.NewAccountsRateProvider(accountService))
	qcService := qcapp.NewService(engine, qcmemory.NewRepository(), logger)
	notificationService := notificationsapp.NewDispatcher(
		notificationsdirectory.NewAccountsDirectory(accountService),
		notificationsmemory.NewRepository(),
		&notificationsexternal.LogEmailSender{Logger: logger},
		&notificationsexternal.LogSMSSender{Logger: logger},
		&notificationsexternal.LogWhatsAppSender{Logger: logger},
		logger,
	)

	router := api.NewRouter(pacttest.ProviderName, api.Services{
		Orders:        engine,
		Writers:       writerService,
		QC:            qcService,
		Inventory:     inventoryService,
		Accounts:      accountService,
		Notifications: notificationService,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		repo:   orderRepo,
		server: server,
	}
}

// seedOrder ensures the fixed contract order exists. Orders are append-only,
// so a second setup call for the same id is a no-op.
func (a *contractProviderApp) seedOrder(t testing.TB, id string) {
	t.Helper()
	ctx := context.Background()
	if existing, err := a.repo.GetByID(ctx, id); err == nil && existing != nil {
		return
	}
	order, err := ordersdomain.NewOrder(id, pacttest.ExampleCustomerID, pacttest.ExamplePriceCents, pacttest.ExamplePages, pacttest.ExampleKitSKU)
	require.NoError(t, err)
	_, err = a.repo.Create(ctx, order)
	require.NoError(t, err)
}
