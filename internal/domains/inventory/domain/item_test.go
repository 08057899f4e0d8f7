package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply_InvariantsHoldAfterEveryOp(t *testing.T) {
	item, err := NewItem("itm-1", "kit-classic", "Classic stationery kit", 10, 3)
	require.NoError(t, err)

	require.NoError(t, item.Apply(OpReserve, 4))
	require.Equal(t, 10, item.Stock)
	require.Equal(t, 4, item.Reserved)
	require.Equal(t, 6, item.Available())

	require.NoError(t, item.Apply(OpRelease, 1))
	require.NoError(t, item.Apply(OpRemove, 3))
	require.Equal(t, 7, item.Stock)
	require.Equal(t, 3, item.Reserved)
	require.LessOrEqual(t, item.Reserved, item.Stock)

	require.NoError(t, item.Apply(OpAdd, 5))
	require.Equal(t, 12, item.Stock)
}

func TestApply_ReserveBeyondAvailableRejectedWithoutMutation(t *testing.T) {
	item := &Item{SKU: "kit-classic", Stock: 10, Reserved: 8, Threshold: 3}

	err := item.Apply(OpReserve, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 10, item.Stock)
	require.Equal(t, 8, item.Reserved)
}

func TestApply_RemoveBeyondAvailableRejected(t *testing.T) {
	item := &Item{SKU: "kit-classic", Stock: 10, Reserved: 8}

	err := item.Apply(OpRemove, 5)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 10, item.Stock)
}

func TestApply_OverReleaseRejected(t *testing.T) {
	item := &Item{SKU: "kit-classic", Stock: 10, Reserved: 2}

	err := item.Apply(OpRelease, 3)
	require.ErrorIs(t, err, ErrOverRelease)
	require.Equal(t, 2, item.Reserved)
}

func TestApply_RejectsUnknownOpAndBadQuantity(t *testing.T) {
	item := &Item{SKU: "kit-classic", Stock: 10}
	require.ErrorIs(t, item.Apply(Op("transfer"), 1), ErrUnknownOp)
	require.ErrorIs(t, item.Apply(OpAdd, 0), ErrInvalidQuantity)
	require.ErrorIs(t, item.Apply(OpAdd, -2), ErrInvalidQuantity)
}

func TestLowStock(t *testing.T) {
	item := &Item{SKU: "kit-classic", Stock: 10, Reserved: 7, Threshold: 3}
	require.True(t, item.LowStock())
	item.Reserved = 5
	require.False(t, item.LowStock())
}
