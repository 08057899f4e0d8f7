// Package application implements the accounts directory use cases.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
)

// ErrInvalidInput wraps domain validation failures so transports can map them
// to a 400 uniformly.
var ErrInvalidInput = errors.New("invalid input")

var _ ports.Service = (*Service)(nil)

// Service coordinates the account directory used by fulfillment staff and
// customer notifications.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateAccount(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	account, err := domain.NewAccount(uuid.NewString(), in.Name, in.Role)
	if err != nil {
		return nil, mapError(err)
	}
	if err := account.UpdateContact(in.Email, in.Phone); err != nil {
		return nil, mapError(err)
	}
	if err := account.SetRate(in.PerPageRateCents); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, account)
}

func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	return s.repo.ListByRole(ctx, role)
}

func (s *Service) UpdateContact(ctx context.Context, id, email, phone string) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := account.UpdateContact(email, phone); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, account)
}

func (s *Service) SetWriterRate(ctx context.Context, id string, rateCents int64) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleWriter {
		return nil, fmt.Errorf("%w: account %s is not a writer", ErrInvalidInput, id)
	}
	if err := account.SetRate(rateCents); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, account)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
