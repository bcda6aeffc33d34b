package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/models"
)

// Channel is the pathway a television is sold through.
type Channel string

const (
	B2C Channel = "b2c"
	B2B Channel = "b2b"
)

// ParseChannel accepts "b2c" or "b2b" in any case.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case B2C, B2B:
		return c, nil
	}
	return "", invalidf("parse channel", "unknown sale channel %q", s)
}

// Buyer carries the customer-facing fields of a sale. For B2B sales Name is
// the business name. A zero Date means today.
type Buyer struct {
	Name     string
	Phone    string
	Price    decimal.Decimal
	Date     time.Time
	Warranty string
}

func (b Buyer) check(op string) error {
	if b.Price.IsNegative() {
		return invalidf(op, "price cannot be negative")
	}
	return nil
}

// SellTV sells the unit with the given serial through ch. The unit row is
// locked for the whole transaction so at most one concurrent sale succeeds;
// the loser gets AlreadySold. It returns the new sale id.
func (l *Ledger) SellTV(ctx context.Context, p auth.Principal, ch Channel, serial string, b Buyer) (uint, error) {
	op := "sell tv " + string(ch)
	serial = strings.TrimSpace(serial)
	switch {
	case ch != B2C && ch != B2B:
		return 0, invalidf(op, "unknown sale channel %q", ch)
	case serial == "":
		return 0, invalidf(op, "serial number required")
	}
	if err := b.check(op); err != nil {
		return 0, err
	}
	var saleID uint
	err := l.transition(ctx, op, p, saleSell, func(tx *gorm.DB, f *fields) error {
		f.add(zap.String("serial", serial))
		return withLocked(tx, "tv with serial", "serial_number", serial, func(u *models.TVUnit) error {
			if !u.IsAvailable() {
				return newError(AlreadySold, "", "tv "+serial+" is already sold", nil)
			}
			base := models.TVSale{
				ProductID: u.ID,
				Phone:     strings.TrimSpace(b.Phone),
				Price:     b.Price,
				SaleDate:  l.saleDate(b.Date),
				Warranty:  strings.TrimSpace(b.Warranty),
				Brand:     u.Brand,
				Size:      u.Size,
			}
			var err error
			if ch == B2B {
				sale := &models.B2BTVSale{TVSale: base, BusinessName: strings.TrimSpace(b.Name)}
				err = tx.Create(sale).Error
				saleID = sale.ID
			} else {
				sale := &models.B2CTVSale{TVSale: base, CustomerName: strings.TrimSpace(b.Name)}
				err = tx.Create(sale).Error
				saleID = sale.ID
			}
			if err != nil {
				return err
			}
			if err := tx.Model(u).Update("status", models.UnitSold).Error; err != nil {
				return err
			}
			f.add(zap.Uint("unit_id", u.ID), zap.Uint("sale_id", saleID))
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return saleID, nil
}

// AccessoryOrder is a request to sell Quantity of Item from Location.
type AccessoryOrder struct {
	Item     string
	Quantity int
	Location Location
	Buyer    Buyer
}

// SellAccessory draws the order's quantity from its location and records the
// sale. Quantity must be positive; a counter below the quantity is
// InsufficientStock. It returns the new sale id.
func (l *Ledger) SellAccessory(ctx context.Context, p auth.Principal, o AccessoryOrder) (uint, error) {
	const op = "sell accessory"
	item := strings.TrimSpace(o.Item)
	switch {
	case o.Quantity <= 0:
		return 0, invalidf(op, "quantity must be positive")
	case item == "":
		return 0, invalidf(op, "item name is required")
	case !o.Location.Valid():
		return 0, invalidf(op, "unknown location")
	}
	if err := o.Buyer.check(op); err != nil {
		return 0, err
	}
	var saleID uint
	err := l.transition(ctx, op, p, saleSell, func(tx *gorm.DB, f *fields) error {
		f.add(zap.String("item", item), zap.Int("quantity", o.Quantity), zap.Stringer("location", o.Location))
		return withLocked(tx, "accessory", "item_name", item, func(s *models.AccessoryStock) error {
			have := o.Location.Count(s)
			if have < o.Quantity {
				return newError(InsufficientStock, "", insufficient(o.Location, have, o.Quantity), nil)
			}
			sale := &models.AccessorySale{
				ItemName:     s.ItemName,
				Quantity:     o.Quantity,
				CustomerName: strings.TrimSpace(o.Buyer.Name),
				Phone:        strings.TrimSpace(o.Buyer.Phone),
				LabourName:   o.Location.String(),
				Price:        o.Buyer.Price,
				SaleDate:     l.saleDate(o.Buyer.Date),
			}
			if err := tx.Create(sale).Error; err != nil {
				return err
			}
			if err := shift(tx, s, o.Location, -o.Quantity); err != nil {
				return err
			}
			saleID = sale.ID
			f.add(zap.Uint("sale_id", saleID), zap.Int(o.Location.column(), o.Location.Count(s)))
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return saleID, nil
}
