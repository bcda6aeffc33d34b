package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTransfer leaves "Stand" with main=5, prabhu=2.
func seedTransfer(t *testing.T, l *Ledger) {
	t.Helper()
	addItem(t, l, "Stand", 7)
	_, err := l.TransferAccessory(context.Background(), staff, "Stand", Main, Prabhu, 2)
	require.NoError(t, err)
}

func TestTransferAccessoryMovesAll(t *testing.T) {
	l, db := setupLedger(t)
	seedTransfer(t, l)

	s, err := l.TransferAccessory(context.Background(), staff, "Stand", Main, Prabhu, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, s.MainStock)
	assert.Equal(t, 7, s.PrabhuStock)

	got := stockOf(t, db, "Stand")
	assert.Equal(t, 0, got.MainStock)
	assert.Equal(t, 7, got.PrabhuStock)
	assert.Equal(t, 0, got.TamilStock)
}

func TestTransferAccessoryInsufficientLeavesCounters(t *testing.T) {
	l, db := setupLedger(t)
	seedTransfer(t, l)

	_, err := l.TransferAccessory(context.Background(), staff, "Stand", Main, Prabhu, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got := stockOf(t, db, "Stand")
	assert.Equal(t, 5, got.MainStock)
	assert.Equal(t, 2, got.PrabhuStock)
}

func TestTransferAccessoryRejectsBadInput(t *testing.T) {
	l, db := setupLedger(t)
	seedTransfer(t, l)
	ctx := context.Background()

	tests := []struct {
		name     string
		item     string
		from, to Location
		qty      int
		want     error
	}{
		{"zero", "Stand", Main, Tamil, 0, ErrInvalidInput},
		{"negative", "Stand", Main, Tamil, -3, ErrInvalidInput},
		{"same location", "Stand", Main, Main, 1, ErrInvalidInput},
		{"bad location", "Stand", Main, Location(5), 1, ErrInvalidInput},
		{"unknown item", "Ghost", Main, Tamil, 1, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.TransferAccessory(ctx, staff, tt.item, tt.from, tt.to, tt.qty)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	got := stockOf(t, db, "Stand")
	assert.Equal(t, 5, got.MainStock)
	assert.Equal(t, 2, got.PrabhuStock)
	assert.Equal(t, 0, got.TamilStock)
}

func TestTransferThenSellFromLocation(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	addItem(t, l, "Cable", 10)

	_, err := l.TransferAccessory(ctx, staff, "Cable", Main, Tamil, 4)
	require.NoError(t, err)
	_, err = l.SellAccessory(ctx, staff, AccessoryOrder{Item: "Cable", Quantity: 3, Location: Tamil})
	require.NoError(t, err)

	got := stockOf(t, db, "Cable")
	assert.Equal(t, 6, got.MainStock)
	assert.Equal(t, 1, got.TamilStock)
	assert.Equal(t, 7, got.Total(), "intake minus sales")
}
