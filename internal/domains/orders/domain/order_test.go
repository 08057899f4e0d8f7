package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_Validates(t *testing.T) {
	order, err := NewOrder("ord-1", "cust-1", 49900, 2, "kit-classic")
	require.NoError(t, err)
	require.Equal(t, StatePendingPayment, order.State)
	require.Equal(t, PaymentPending, order.Payment.Status)

	_, err = NewOrder("ord-2", " ", 49900, 2, "kit-classic")
	require.ErrorIs(t, err, ErrEmptyCustomer)

	_, err = NewOrder("ord-3", "cust-1", 0, 2, "kit-classic")
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewOrder("ord-4", "cust-1", 49900, 0, "kit-classic")
	require.ErrorIs(t, err, ErrInvalidPages)
}

func TestOrder_Cancellable(t *testing.T) {
	cases := []struct {
		state State
		want  bool
	}{
		{StatePendingPayment, true},
		{StatePaid, true},
		{StateAssigned, true},
		{StateWritingInProgress, true},
		{StateQCReview, true},
		{StateApproved, true},
		{StateChangesRequested, true},
		{StatePacked, true},
		{StateShipped, false},
		{StateDelivered, false},
		{StateCancelled, false},
	}
	for _, tc := range cases {
		order := Order{State: tc.state}
		require.Equalf(t, tc.want, order.Cancellable(), "state %s", tc.state)
	}
}

func TestOrder_Terminal(t *testing.T) {
	require.True(t, (&Order{State: StateDelivered}).Terminal())
	require.True(t, (&Order{State: StateCancelled}).Terminal())
	require.False(t, (&Order{State: StateShipped}).Terminal())
}

func TestLegacyStatus_DerivedFromState(t *testing.T) {
	require.Equal(t, "awaiting_payment", (&Order{State: StatePendingPayment}).LegacyStatus())
	require.Equal(t, "processing", (&Order{State: StateQCReview}).LegacyStatus())
	require.Equal(t, "shipped", (&Order{State: StateShipped}).LegacyStatus())
	require.Equal(t, "completed", (&Order{State: StateDelivered}).LegacyStatus())
	require.Equal(t, "cancelled", (&Order{State: StateCancelled}).LegacyStatus())
}

func TestIsValidState(t *testing.T) {
	require.True(t, IsValidState(StateQCReview))
	require.False(t, IsValidState(State("mailed")))
}
