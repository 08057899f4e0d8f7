package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/adapters/memory"
	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
)

func TestCreateAccount_ValidatesInput(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "  ", Role: domain.RoleWriter})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "Mira", Role: domain.Role("auditor")})
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "Mira", Role: domain.RoleWriter, Email: "not-an-email"})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestCreateAccount_RoundTrip(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, ports.CreateAccountInput{
		Name:             "Mira Hollis",
		Email:            "mira@example.com",
		Phone:            "+62811111111",
		Role:             domain.RoleWriter,
		PerPageRateCents: 450,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Mira Hollis", got.Name)
	require.Equal(t, int64(450), got.PerPageRateCents)
	require.True(t, got.Reachable())
}

func TestSetWriterRate_OnlyForWriters(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	customer, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "Ben", Role: domain.RoleCustomer})
	require.NoError(t, err)
	_, err = svc.SetWriterRate(ctx, customer.ID, 500)
	require.ErrorIs(t, err, ErrInvalidInput)

	writer, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "Ada", Role: domain.RoleWriter})
	require.NoError(t, err)
	updated, err := svc.SetWriterRate(ctx, writer.ID, 500)
	require.NoError(t, err)
	require.Equal(t, int64(500), updated.PerPageRateCents)
}

func TestListByRole(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "Ada", Role: domain.RoleWriter})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, ports.CreateAccountInput{Name: "Ben", Role: domain.RoleCustomer})
	require.NoError(t, err)

	writers, err := svc.ListByRole(ctx, domain.RoleWriter)
	require.NoError(t, err)
	require.Len(t, writers, 1)
	require.Equal(t, "Ada", writers[0].Name)
}
