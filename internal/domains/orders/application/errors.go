package application

import (
	"errors"
	"fmt"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
)

var (
	// ErrIllegalTransition signals the operation's precondition on the
	// order's current state failed. Never retried automatically; the caller
	// must map it to a client-visible conflict.
	ErrIllegalTransition = errors.New("illegal workflow transition")
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func illegalTransition(op, orderID string, current domain.State) error {
	return fmt.Errorf("%w: %s rejected, order %s is in state %q", ErrIllegalTransition, op, orderID, current)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCustomer) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidPages) ||
		errors.Is(err, domain.ErrInvalidState) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
