// Package rates resolves writer pay rates from the accounts directory.
package rates

import (
	"context"
	"fmt"

	accountsdomain "github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	accountsports "github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	writersports "github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
)

var _ writersports.RateProvider = (*AccountsRateProvider)(nil)

// AccountsRateProvider looks up a writer's per-page rate on their account
// record at payout booking time.
type AccountsRateProvider struct {
	accounts accountsports.Service
}

func NewAccountsRateProvider(accounts accountsports.Service) *AccountsRateProvider {
	return &AccountsRateProvider{accounts: accounts}
}

func (p *AccountsRateProvider) PerPageRateCents(ctx context.Context, writerID string) (int64, error) {
	account, err := p.accounts.GetAccount(ctx, writerID)
	if err != nil {
		return 0, fmt.Errorf("resolve writer rate: %w", err)
	}
	if account.Role != accountsdomain.RoleWriter {
		return 0, fmt.Errorf("account %s is not a writer", writerID)
	}
	return account.PerPageRateCents, nil
}
