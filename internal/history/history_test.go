package history

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/config"
	"github.com/diewo77/tvstock/internal/ledger"
	"github.com/diewo77/tvstock/internal/models"
)

var clerk = auth.Principal{UserID: 1, Role: string(models.RoleStaff)}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

// setupHistory records a small mixed sales history and returns a store over it.
func setupHistory(t *testing.T) *Store {
	t.Helper()
	dsn := config.SQLiteDSN(filepath.Join(t.TempDir(), "history.db"), 5000)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	l := ledger.New(db)
	units := []ledger.TVSpec{
		{Serial: "SN-100", Brand: "Sony", Size: "55"},
		{Serial: "SN-200", Brand: "LG", Size: "43"},
		{Serial: "SN-300", Brand: "Sony", Size: "55"},
		{Serial: "SN-400", Brand: "Onida", Size: "32"},
	}
	for _, u := range units {
		_, err := l.AddTVUnit(ctx, clerk, u)
		require.NoError(t, err)
	}
	sales := []struct {
		ch     ledger.Channel
		serial string
		buyer  ledger.Buyer
	}{
		{ledger.B2C, "SN-100", ledger.Buyer{Name: "Anita Rao", Phone: "98400 11111", Price: decimal.NewFromInt(40000), Date: day("2024-01-10"), Warranty: "1y"}},
		{ledger.B2B, "SN-200", ledger.Buyer{Name: "Hotel Ganga", Phone: "04422", Price: decimal.NewFromInt(25000), Date: day("2024-01-05")}},
		{ledger.B2C, "SN-300", ledger.Buyer{Name: "Vijay", Phone: "98400 22222", Price: decimal.NewFromInt(41000), Date: day("2024-01-20")}},
		{ledger.B2B, "SN-400", ledger.Buyer{Name: "Lodge Arun", Phone: "04433", Price: decimal.NewFromInt(9000), Date: day("2024-01-10")}},
	}
	for _, s := range sales {
		_, err := l.SellTV(ctx, clerk, s.ch, s.serial, s.buyer)
		require.NoError(t, err)
	}
	// A later correction of the unit must not alter the recorded sale.
	var u models.TVUnit
	require.NoError(t, db.Where("serial_number = ?", "SN-100").Take(&u).Error)
	_, err = l.EditTVUnit(ctx, clerk, u.ID, ledger.TVSpec{Serial: "SN-100", Brand: "Samsung", Size: "65"})
	require.NoError(t, err)

	_, err = l.AddAccessoryStock(ctx, clerk, "HDMI Cable", 20)
	require.NoError(t, err)
	_, err = l.AddAccessoryStock(ctx, clerk, "Wall Mount", 5)
	require.NoError(t, err)
	for _, o := range []ledger.AccessoryOrder{
		{Item: "HDMI Cable", Quantity: 2, Buyer: ledger.Buyer{Name: "Anita Rao", Phone: "98400 11111", Price: decimal.NewFromInt(400), Date: day("2024-02-01")}},
		{Item: "Wall Mount", Quantity: 1, Buyer: ledger.Buyer{Name: "Kumar", Phone: "77777", Price: decimal.NewFromInt(900), Date: day("2024-01-15")}},
	} {
		_, err := l.SellAccessory(ctx, clerk, o)
		require.NoError(t, err)
	}
	return NewStore(sqlDB, "sqlite3")
}

func serials(sales []TVSale) []string {
	out := make([]string, len(sales))
	for i, s := range sales {
		out[i] = s.Serial
	}
	return out
}

func TestQueryDefaultIsNewestFirst(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, Desc, res.Sort)
	// Two sales share 2024-01-10; the tie is broken by id, descending.
	assert.Equal(t, []string{"SN-300", "SN-400", "SN-100", "SN-200"}, serials(res.TVSales))
	require.Len(t, res.AccessorySales, 2)
	assert.Equal(t, "HDMI Cable", res.AccessorySales[0].ItemName)
	assert.Equal(t, "main", res.AccessorySales[0].LabourName)
}

func TestQueryAscending(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{Sort: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-200", "SN-100", "SN-400", "SN-300"}, serials(res.TVSales))
	assert.Equal(t, "Wall Mount", res.AccessorySales[0].ItemName)
}

func TestQueryBogusSortFallsBackToDesc(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{Sort: "sideways; DROP TABLE tv_inventory"})
	require.NoError(t, err)
	assert.Equal(t, Desc, res.Sort)
	assert.Len(t, res.TVSales, 4)
}

func TestQuerySearch(t *testing.T) {
	s := setupHistory(t)
	ctx := context.Background()

	res, err := s.Query(ctx, Filter{Search: "anita"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-100"}, serials(res.TVSales))
	require.Len(t, res.AccessorySales, 1)
	assert.Equal(t, "HDMI Cable", res.AccessorySales[0].ItemName)

	res, err = s.Query(ctx, Filter{Search: "sn-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-200"}, serials(res.TVSales))
	assert.Equal(t, TypeB2B, res.TVSales[0].Type)
	assert.Equal(t, "b2b_tv", res.TVSales[0].SaleKind())

	res, err = s.Query(ctx, Filter{Search: "mount"})
	require.NoError(t, err)
	assert.Empty(t, res.TVSales)
	assert.Len(t, res.AccessorySales, 1)
}

func TestQuerySearchWildcardsAreLiteral(t *testing.T) {
	s := setupHistory(t)
	ctx := context.Background()

	for _, term := range []string{"sn_1", "%", "a%r", "!"} {
		res, err := s.Query(ctx, Filter{Search: term})
		require.NoError(t, err)
		assert.Empty(t, res.TVSales, term)
		assert.Empty(t, res.AccessorySales, term)
	}
}

func TestQuerySizeUsesSaleSnapshot(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{Size: "55"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-300", "SN-100"}, serials(res.TVSales))
	for _, sale := range res.TVSales {
		assert.Equal(t, "Sony", sale.Brand)
	}
	assert.Len(t, res.AccessorySales, 2, "size does not filter accessories")
}

func TestQueryDateRangeIsInclusive(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{StartDate: "2024-01-05", EndDate: "2024-01-10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN-400", "SN-100", "SN-200"}, serials(res.TVSales))
	assert.Empty(t, res.AccessorySales)
	assert.Empty(t, res.DateErrors)
}

func TestQueryInvalidDatesAreIgnoredAndReported(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{StartDate: "10/01/2024", EndDate: "2024-01-10"})
	require.NoError(t, err)
	assert.Len(t, res.TVSales, 3)
	require.Len(t, res.DateErrors, 1)
	assert.Contains(t, res.DateErrors[0], "start date")
}

func TestQueryFieldsAndPrice(t *testing.T) {
	s := setupHistory(t)
	res, err := s.Query(context.Background(), Filter{Search: "SN-100"})
	require.NoError(t, err)
	require.Len(t, res.TVSales, 1)
	got := res.TVSales[0]
	assert.Equal(t, "Anita Rao", got.Name)
	assert.Equal(t, "1y", got.Warranty)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(40000)), got.Price.String())
	assert.Equal(t, "2024-01-10", got.SaleDate.Format(time.DateOnly))
}

func TestFilterFromQuery(t *testing.T) {
	f := FilterFromQuery(url.Values{
		"search":     {"  tv "},
		"start_date": {"2024-01-01"},
		"size":       {" 55 "},
		"sort":       {"asc"},
	})
	assert.Equal(t, "tv", f.Search)
	assert.Equal(t, "55", f.Size)
	assert.Equal(t, Asc, f.Direction())
	assert.Equal(t, Desc, Filter{}.Direction())
}
