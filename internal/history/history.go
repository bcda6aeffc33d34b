// Package history answers read-only sales history queries.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Sale types reported in TVSale.Type.
const (
	TypeB2C = "B2C"
	TypeB2B = "B2B"
)

// TVSale is one television sale of either channel.
type TVSale struct {
	Type     string          `db:"type" json:"type"`
	ID       uint            `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Phone    string          `db:"phone" json:"phone"`
	Brand    string          `db:"brand" json:"brand"`
	Size     string          `db:"size" json:"size"`
	Serial   string          `db:"serial_number" json:"serial_number"`
	SaleDate time.Time       `db:"sale_date" json:"sale_date"`
	Warranty string          `db:"warranty" json:"warranty"`
	Price    decimal.Decimal `db:"price" json:"price"`
}

// SaleKind is the deletion tag of the sale.
func (s TVSale) SaleKind() string { return strings.ToLower(s.Type) + "_tv" }

// AccessorySale is one accessory sale.
type AccessorySale struct {
	ID           uint            `db:"id" json:"id"`
	CustomerName string          `db:"customer_name" json:"customer_name"`
	Phone        string          `db:"phone" json:"phone"`
	ItemName     string          `db:"item_name" json:"item_name"`
	Quantity     int             `db:"quantity" json:"quantity"`
	LabourName   string          `db:"labour_name" json:"labour_name"`
	SaleDate     time.Time       `db:"sale_date" json:"sale_date"`
	Price        decimal.Decimal `db:"price" json:"price"`
}

// Result is a filtered view of the sales history.
type Result struct {
	TVSales        []TVSale        `json:"tv_sales"`
	AccessorySales []AccessorySale `json:"accessory_sales"`
	Filter         Filter          `json:"-"`
	Sort           string          `json:"sort"`
	DateErrors     []string        `json:"date_errors,omitempty"`
}

// Store queries sales through sqlx on the application's connection pool.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps db; driverName selects the bind-variable style.
func NewStore(db *sql.DB, driverName string) *Store {
	return &Store{db: sqlx.NewDb(db, driverName)}
}

// Query returns both TV and accessory sales matching f.
func (s *Store) Query(ctx context.Context, f Filter) (*Result, error) {
	tv, err := s.TVSales(ctx, f)
	if err != nil {
		return nil, err
	}
	acc, err := s.AccessorySales(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Result{
		TVSales:        tv,
		AccessorySales: acc,
		Filter:         f,
		Sort:           f.Direction(),
		DateErrors:     f.bounds().errs,
	}, nil
}

// tvChannels lists the per-channel tables merged into one TV history.
var tvChannels = []struct {
	typ, table, nameCol string
}{
	{TypeB2C, "b2c_tv_sales", "customer_name"},
	{TypeB2B, "b2b_tv_sales", "business_name"},
}

// TVSales merges B2C and B2B sales ordered by sale date, ties by id.
func (s *Store) TVSales(ctx context.Context, f Filter) ([]TVSale, error) {
	b := f.bounds()
	dir := f.Direction()
	sales := []TVSale{}
	for _, ch := range tvChannels {
		var qb queryBuilder
		qb.add(fmt.Sprintf(`SELECT '%s' AS type, s.id, COALESCE(s.%s, '') AS name, COALESCE(s.phone, '') AS phone,
	s.brand, s.size, t.serial_number, s.sale_date, COALESCE(s.warranty, '') AS warranty, s.price
FROM %s s
JOIN tv_inventory t ON s.product_id = t.id
WHERE 1=1`, ch.typ, ch.nameCol, ch.table))
		qb.search(f.Search, "s."+ch.nameCol, "s.phone", "t.serial_number")
		if f.Size != "" {
			qb.add(" AND s.size = ?", f.Size)
		}
		qb.dates(b, "s.sale_date")
		qb.add(" ORDER BY s.sale_date " + dir + ", s.id " + dir)

		var rows []TVSale
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(qb.sql.String()), qb.args...); err != nil {
			return nil, fmt.Errorf("query %s: %w", ch.table, err)
		}
		sales = append(sales, rows...)
	}
	sort.SliceStable(sales, func(i, j int) bool {
		a, c := sales[i], sales[j]
		if !a.SaleDate.Equal(c.SaleDate) {
			if dir == Asc {
				return a.SaleDate.Before(c.SaleDate)
			}
			return a.SaleDate.After(c.SaleDate)
		}
		if dir == Asc {
			return a.ID < c.ID
		}
		return a.ID > c.ID
	})
	return sales, nil
}

// AccessorySales returns accessory sales; the size filter does not apply.
func (s *Store) AccessorySales(ctx context.Context, f Filter) ([]AccessorySale, error) {
	dir := f.Direction()
	var qb queryBuilder
	qb.add(`SELECT id, COALESCE(customer_name, '') AS customer_name, COALESCE(phone, '') AS phone,
	item_name, quantity, COALESCE(labour_name, '') AS labour_name, sale_date, price
FROM b2c_accessory_sales
WHERE 1=1`)
	qb.search(f.Search, "customer_name", "phone", "item_name")
	qb.dates(f.bounds(), "sale_date")
	qb.add(" ORDER BY sale_date " + dir + ", id " + dir)

	sales := []AccessorySale{}
	if err := s.db.SelectContext(ctx, &sales, s.db.Rebind(qb.sql.String()), qb.args...); err != nil {
		return nil, fmt.Errorf("query b2c_accessory_sales: %w", err)
	}
	return sales, nil
}

// queryBuilder accumulates "?" placeholders; Rebind adapts them per driver.
type queryBuilder struct {
	sql  strings.Builder
	args []any
}

func (q *queryBuilder) add(fragment string, args ...any) {
	q.sql.WriteString(fragment)
	q.args = append(q.args, args...)
}

// likeEscaper makes a term literal inside a LIKE pattern. A backslash escape
// would need doubling in MySQL string literals, so '!' is used.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// search matches term as a case-insensitive substring of any column.
func (q *queryBuilder) search(term string, columns ...string) {
	if term == "" {
		return
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ? ESCAPE '!'"
		q.args = append(q.args, pattern)
	}
	q.sql.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
}

func (q *queryBuilder) dates(b bounds, column string) {
	if b.from != "" {
		q.add(" AND "+column+" >= ?", b.from)
	}
	if b.until != "" {
		q.add(" AND "+column+" < ?", b.until)
	}
}
