package errors

import (
	"errors"

	accountsapp "github.com/inkwell-letters/fulfillment/internal/domains/accounts/application"
	accountsports "github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	inventoryapp "github.com/inkwell-letters/fulfillment/internal/domains/inventory/application"
	inventoryports "github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
	notificationsports "github.com/inkwell-letters/fulfillment/internal/domains/notifications/ports"
	ordersapp "github.com/inkwell-letters/fulfillment/internal/domains/orders/application"
	ordersports "github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
	qcdomain "github.com/inkwell-letters/fulfillment/internal/domains/qc/domain"
	qcports "github.com/inkwell-letters/fulfillment/internal/domains/qc/ports"
	writersapp "github.com/inkwell-letters/fulfillment/internal/domains/writers/application"
	writersports "github.com/inkwell-letters/fulfillment/internal/domains/writers/ports"
)

// FulfillmentErrorMapper translates the application errors of every bounded
// context into Problem Details. Wire it into a ChainedResponder at router
// construction.
func FulfillmentErrorMapper(err error) (ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, inventoryports.ErrNotFound),
		errors.Is(err, writersports.ErrNotFound),
		errors.Is(err, qcports.ErrNotFound),
		errors.Is(err, accountsports.ErrNotFound),
		errors.Is(err, notificationsports.ErrNotFound):
		return ErrNotFound.WithDetail(err.Error()), true

	case errors.Is(err, ordersapp.ErrIllegalTransition),
		errors.Is(err, ordersports.ErrIdempotencyConflict),
		errors.Is(err, writersports.ErrDuplicatePayout),
		errors.Is(err, writersapp.ErrNotAssignedWriter):
		return ErrConflict.WithDetail(err.Error()), true

	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, inventoryapp.ErrInvalidInput),
		errors.Is(err, accountsapp.ErrInvalidInput),
		errors.Is(err, qcdomain.ErrEmptyFeedback),
		errors.Is(err, qcdomain.ErrEmptyReviewer),
		errors.Is(err, notificationsports.ErrUnknownRecipient):
		return ErrValidation.WithDetail(err.Error()), true
	}
	return ProblemDetail{}, false
}
