package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/models"
)

func TestAddTVUnit(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()

	u, err := l.AddTVUnit(ctx, staff, TVSpec{Serial: " SN-1 ", Brand: "LG", Size: "43"})
	require.NoError(t, err)
	assert.Equal(t, "SN-1", u.SerialNumber)
	assert.Equal(t, models.UnitAvailable, unitOf(t, db, "SN-1").Status)

	_, err = l.AddTVUnit(ctx, staff, TVSpec{Serial: "SN-1", Brand: "Sony", Size: "55"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, int64(1), count(t, db, &models.TVUnit{}))
}

func TestAddTVUnitRequiresFields(t *testing.T) {
	l, db := setupLedger(t)
	for _, spec := range []TVSpec{
		{Brand: "LG", Size: "43"},
		{Serial: "A", Size: "43"},
		{Serial: "A", Brand: "LG", Size: "  "},
	} {
		_, err := l.AddTVUnit(context.Background(), admin, spec)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", spec)
	}
	assert.Zero(t, count(t, db, &models.TVUnit{}))
}

func TestAddTVUnitRequiresPrincipal(t *testing.T) {
	l, db := setupLedger(t)
	_, err := l.AddTVUnit(context.Background(), auth.Principal{}, TVSpec{Serial: "A", Brand: "LG", Size: "43"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = l.AddTVUnit(context.Background(), auth.Principal{UserID: 5, Role: "guest"}, TVSpec{Serial: "A", Brand: "LG", Size: "43"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, count(t, db, &models.TVUnit{}))
}

func TestEditTVUnit(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()
	a := addUnit(t, l, "A")
	addUnit(t, l, "B")

	_, err := l.SellTV(ctx, staff, B2C, "A", Buyer{Name: "Ravi"})
	require.NoError(t, err)

	edited, err := l.EditTVUnit(ctx, staff, a.ID, TVSpec{Serial: "A2", Brand: "Samsung", Size: "65"})
	require.NoError(t, err)
	assert.Equal(t, "A2", edited.SerialNumber)
	got := unitOf(t, db, "A2")
	assert.Equal(t, "Samsung", got.Brand)
	assert.Equal(t, models.UnitSold, got.Status, "editing must not touch status")

	var sale models.B2CTVSale
	require.NoError(t, db.Take(&sale).Error)
	assert.Equal(t, "Sony", sale.Brand, "sale keeps its snapshot")
	assert.Equal(t, "55", sale.Size)

	_, err = l.EditTVUnit(ctx, staff, a.ID, TVSpec{Serial: "B", Brand: "LG", Size: "43"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = l.EditTVUnit(ctx, staff, 999, TVSpec{Serial: "Z", Brand: "LG", Size: "43"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddAccessoryStock(t *testing.T) {
	l, db := setupLedger(t)
	ctx := context.Background()

	s, err := l.AddAccessoryStock(ctx, staff, "  HDMI Cable ", 10)
	require.NoError(t, err)
	assert.Equal(t, "HDMI Cable", s.ItemName)
	assert.Equal(t, 10, s.MainStock)

	s, err = l.AddAccessoryStock(ctx, staff, "HDMI Cable", 5)
	require.NoError(t, err)
	assert.Equal(t, 15, s.MainStock)

	got := stockOf(t, db, "HDMI Cable")
	assert.Equal(t, 15, got.MainStock)
	assert.Zero(t, got.PrabhuStock)
	assert.Zero(t, got.TamilStock)

	_, err = l.AddAccessoryStock(ctx, staff, "HDMI Cable", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = l.AddAccessoryStock(ctx, staff, " ", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 15, stockOf(t, db, "HDMI Cable").MainStock)
}

func TestAddAccessoryStockZeroCreatesItem(t *testing.T) {
	l, db := setupLedger(t)
	_, err := l.AddAccessoryStock(context.Background(), staff, "Wall Mount", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, db, "Wall Mount").MainStock)
}

func TestAddAccessoryStockConcurrentFirstIntake(t *testing.T) {
	l, db := setupLedger(t)
	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.AddAccessoryStock(context.Background(), staff, "Remote", 3)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), count(t, db, &models.AccessoryStock{}))
	assert.Equal(t, workers*3, stockOf(t, db, "Remote").MainStock)
}
