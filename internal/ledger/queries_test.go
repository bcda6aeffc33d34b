package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjections(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()
	for _, spec := range []TVSpec{
		{Serial: "Z9", Brand: "Sony", Size: "55"},
		{Serial: "A1", Brand: "LG", Size: "43"},
		{Serial: "M5", Brand: "Sony", Size: "65"},
		{Serial: "Q2", Brand: "Onida", Size: "32"},
	} {
		_, err := l.AddTVUnit(ctx, staff, spec)
		require.NoError(t, err)
	}
	_, err := l.SellTV(ctx, staff, B2C, "Q2", Buyer{})
	require.NoError(t, err)

	units, err := l.AvailableUnits(ctx)
	require.NoError(t, err)
	var serials []string
	for _, u := range units {
		serials = append(serials, u.SerialNumber)
	}
	assert.Equal(t, []string{"A1", "M5", "Z9"}, serials)

	got, err := l.AvailableSerials(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "M5", "Z9"}, got)

	brands, err := l.AvailableBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"LG", "Sony"}, brands)
}

func TestAvailableSerialsEmptyIsNotNil(t *testing.T) {
	l, _ := setupLedger(t)
	got, err := l.AvailableSerials(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStats(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()

	empty, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalAccessories())

	addUnit(t, l, "A")
	addUnit(t, l, "B")
	addUnit(t, l, "C")
	_, err = l.SellTV(ctx, staff, B2C, "A", Buyer{})
	require.NoError(t, err)
	_, err = l.SellTV(ctx, staff, B2B, "B", Buyer{})
	require.NoError(t, err)
	addItem(t, l, "Cable", 10)
	addItem(t, l, "Remote", 4)
	_, err = l.TransferAccessory(ctx, staff, "Cable", Main, Tamil, 3)
	require.NoError(t, err)
	_, err = l.TransferAccessory(ctx, staff, "Remote", Main, Prabhu, 1)
	require.NoError(t, err)

	s, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		TotalUnits:     3,
		AvailableUnits: 1,
		B2CSales:       1,
		B2BSales:       1,
		MainStock:      10,
		PrabhuStock:    1,
		TamilStock:     3,
	}, s)
	assert.Equal(t, int64(14), s.TotalAccessories())
}

func TestStockItemsAndSearch(t *testing.T) {
	l, _ := setupLedger(t)
	ctx := context.Background()
	addItem(t, l, "Wall Mount", 1)
	addItem(t, l, "HDMI Cable", 1)
	addItem(t, l, "hdmi splitter", 1)
	for i := range 12 {
		addItem(t, l, fmt.Sprintf("Screw %02d", i), 1)
	}

	items, err := l.StockItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 15)
	assert.Equal(t, "HDMI Cable", items[0].ItemName)

	got, err := l.SearchItems(ctx, "HDMI")
	require.NoError(t, err)
	assert.Equal(t, []string{"HDMI Cable", "hdmi splitter"}, got)

	got, err = l.SearchItems(ctx, "screw")
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, "Screw 00", got[0])

	got, err = l.SearchItems(ctx, "antenna")
	require.NoError(t, err)
	assert.Empty(t, got)

	addItem(t, l, "50% Off Remote", 1)
	got, err = l.SearchItems(ctx, "50%")
	require.NoError(t, err)
	assert.Equal(t, []string{"50% Off Remote"}, got)

	got, err = l.SearchItems(ctx, "screw_0")
	require.NoError(t, err)
	assert.Empty(t, got)
}
