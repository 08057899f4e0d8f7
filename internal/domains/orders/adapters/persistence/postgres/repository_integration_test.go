//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	"github.com/inkwell-letters/fulfillment/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("fulfillment_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTestOrder(t *testing.T, id string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, "cust-1", 49900, 2, "kit-classic")
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestOrder(t, "ord-pg-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatePendingPayment, created.State)

	loaded, err := repo.GetByID(ctx, "ord-pg-1")
	require.NoError(t, err)
	require.Equal(t, created.CustomerID, loaded.CustomerID)
	require.Equal(t, created.PriceCents, loaded.PriceCents)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_TransitionConditional(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestOrder(t, "ord-pg-2"))
	require.NoError(t, err)

	now := time.Now().UTC()
	payment := domain.Payment{GatewayOrderID: "gw-1", GatewayPaymentID: "pay-1", Status: domain.PaymentConfirmed, PaidAt: &now}
	paid, err := repo.Transition(ctx, "ord-pg-2",
		[]domain.State{domain.StatePendingPayment},
		ports.StateChange{To: domain.StatePaid, Payment: &payment})
	require.NoError(t, err)
	require.Equal(t, domain.StatePaid, paid.State)
	require.Equal(t, "pay-1", paid.Payment.GatewayPaymentID)

	// Precondition no longer holds: filtered update touches zero rows.
	_, err = repo.Transition(ctx, "ord-pg-2",
		[]domain.State{domain.StatePendingPayment},
		ports.StateChange{To: domain.StatePaid})
	require.ErrorIs(t, err, ports.ErrStateConflict)

	_, err = repo.Transition(ctx, "missing",
		[]domain.State{domain.StatePendingPayment},
		ports.StateChange{To: domain.StatePaid})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ClaimGuards(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestOrder(t, "ord-pg-3"))
	require.NoError(t, err)
	now := time.Now().UTC()
	payment := domain.Payment{GatewayPaymentID: "pay-3", Status: domain.PaymentConfirmed, PaidAt: &now}
	_, err = repo.Transition(ctx, "ord-pg-3", []domain.State{domain.StatePendingPayment}, ports.StateChange{To: domain.StatePaid, Payment: &payment})
	require.NoError(t, err)

	writer := "writer-1"
	claimed, err := repo.Transition(ctx, "ord-pg-3",
		[]domain.State{domain.StatePaid},
		ports.StateChange{To: domain.StateAssigned, AssignWriter: &writer, RequireNoWriter: true})
	require.NoError(t, err)
	require.Equal(t, "writer-1", claimed.Fulfillment.AssignedWriter)

	rival := "writer-2"
	_, err = repo.Transition(ctx, "ord-pg-3",
		[]domain.State{domain.StatePaid},
		ports.StateChange{To: domain.StateAssigned, AssignWriter: &rival, RequireNoWriter: true})
	require.ErrorIs(t, err, ports.ErrStateConflict)

	_, err = repo.Transition(ctx, "ord-pg-3",
		[]domain.State{domain.StateAssigned},
		ports.StateChange{To: domain.StatePaid, ClearWriter: true, RequireWriter: "writer-2"})
	require.ErrorIs(t, err, ports.ErrStateConflict)
}
