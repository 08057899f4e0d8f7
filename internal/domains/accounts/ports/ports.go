// Package ports declares the boundary interfaces of the accounts context.
package ports

import (
	"context"
	"errors"

	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
)

// ErrNotFound indicates the requested account does not exist.
var ErrNotFound = errors.New("account not found")

// Repository is the persistence boundary for accounts.
type Repository interface {
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
}

// CreateAccountInput carries the fields needed to register an account.
type CreateAccountInput struct {
	Name             string
	Email            string
	Phone            string
	Role             domain.Role
	PerPageRateCents int64
}

// Service is the application boundary for the accounts directory.
type Service interface {
	CreateAccount(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	UpdateContact(ctx context.Context, id, email, phone string) (*domain.Account, error)
	SetWriterRate(ctx context.Context, id string, rateCents int64) (*domain.Account, error)
}
