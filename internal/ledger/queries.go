package ledger

import (
	"context"
	"strings"

	"github.com/diewo77/tvstock/internal/models"
)

// Stats summarises the ledger for the dashboard.
type Stats struct {
	TotalUnits     int64 `json:"total_units"`
	AvailableUnits int64 `json:"available_units"`
	B2CSales       int64 `json:"b2c_sales"`
	B2BSales       int64 `json:"b2b_sales"`
	MainStock      int64 `json:"main_stock"`
	PrabhuStock    int64 `json:"prabhu_stock"`
	TamilStock     int64 `json:"tamil_stock"`
}

// TotalAccessories is the accessory quantity held across all locations.
func (s Stats) TotalAccessories() int64 { return s.MainStock + s.PrabhuStock + s.TamilStock }

// itemSearchLimit caps autocomplete answers.
const itemSearchLimit = 10

// AvailableUnits lists unsold units ordered by serial.
func (l *Ledger) AvailableUnits(ctx context.Context) ([]models.TVUnit, error) {
	var units []models.TVUnit
	err := l.db.WithContext(ctx).
		Where("status = ?", models.UnitAvailable).
		Order("serial_number ASC").
		Find(&units).Error
	if err != nil {
		return nil, classify("available units", err)
	}
	return units, nil
}

// AvailableBrands lists the distinct brands of unsold units, ascending.
func (l *Ledger) AvailableBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := l.db.WithContext(ctx).Model(&models.TVUnit{}).
		Where("status = ?", models.UnitAvailable).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, classify("available brands", err)
	}
	return brands, nil
}

// AvailableSerials lists the serials of unsold units, ascending.
func (l *Ledger) AvailableSerials(ctx context.Context) ([]string, error) {
	serials := []string{}
	err := l.db.WithContext(ctx).Model(&models.TVUnit{}).
		Where("status = ?", models.UnitAvailable).
		Order("serial_number ASC").
		Pluck("serial_number", &serials).Error
	if err != nil {
		return nil, classify("available serials", err)
	}
	return serials, nil
}

// StockItems lists every accessory with its counters, ordered by name.
func (l *Ledger) StockItems(ctx context.Context) ([]models.AccessoryStock, error) {
	var items []models.AccessoryStock
	if err := l.db.WithContext(ctx).Order("item_name ASC").Find(&items).Error; err != nil {
		return nil, classify("stock items", err)
	}
	return items, nil
}

// '!' escapes LIKE wildcards; a backslash would need doubling on MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchItems returns up to ten item names containing query, ignoring case.
func (l *Ledger) SearchItems(ctx context.Context, query string) ([]string, error) {
	names := []string{}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
	err := l.db.WithContext(ctx).Model(&models.AccessoryStock{}).
		Where("LOWER(item_name) LIKE ? ESCAPE '!'", pattern).
		Order("item_name ASC").
		Limit(itemSearchLimit).
		Pluck("item_name", &names).Error
	if err != nil {
		return nil, classify("search items", err)
	}
	return names, nil
}

// Stats counts units and sales and sums accessory counters.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := l.db.WithContext(ctx)
	counts := []struct {
		dst   *int64
		model any
		where []any
	}{
		{&s.TotalUnits, &models.TVUnit{}, nil},
		{&s.AvailableUnits, &models.TVUnit{}, []any{"status = ?", models.UnitAvailable}},
		{&s.B2CSales, &models.B2CTVSale{}, nil},
		{&s.B2BSales, &models.B2BTVSale{}, nil},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return Stats{}, classify("stats", err)
		}
	}
	var sums struct {
		MainStock   int64
		PrabhuStock int64
		TamilStock  int64
	}
	err := db.Model(&models.AccessoryStock{}).
		Select("COALESCE(SUM(main_stock), 0) AS main_stock, COALESCE(SUM(prabhu_stock), 0) AS prabhu_stock, COALESCE(SUM(tamil_stock), 0) AS tamil_stock").
		Scan(&sums).Error
	if err != nil {
		return Stats{}, classify("stats", err)
	}
	s.MainStock, s.PrabhuStock, s.TamilStock = sums.MainStock, sums.PrabhuStock, sums.TamilStock
	return s, nil
}
