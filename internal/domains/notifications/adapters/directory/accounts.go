// Package directory bridges the accounts context into the notification
// dispatcher's recipient lookup.
package directory

import (
	"context"
	"errors"
	"fmt"

	accountsports "github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	"github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
)

var _ ports.Directory = (*AccountsDirectory)(nil)

// AccountsDirectory resolves recipients from the accounts service.
type AccountsDirectory struct {
	accounts accountsports.Service
}

func NewAccountsDirectory(accounts accountsports.Service) *AccountsDirectory {
	return &AccountsDirectory{accounts: accounts}
}

func (d *AccountsDirectory) Resolve(ctx context.Context, id string) (*ports.Recipient, error) {
	account, err := d.accounts.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, accountsports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrUnknownRecipient, id)
		}
		return nil, err
	}
	return &ports.Recipient{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Phone: account.Phone,
	}, nil
}
