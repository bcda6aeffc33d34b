package ledger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/models"
)

// SaleKind names the table a sale lives in.
type SaleKind string

const (
	KindB2CTV        SaleKind = "b2c_tv"
	KindB2BTV        SaleKind = "b2b_tv"
	KindB2CAccessory SaleKind = "b2c_accessory"
)

// ParseSaleKind validates a sale type tag.
func ParseSaleKind(s string) (SaleKind, error) {
	switch k := SaleKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindB2CTV, KindB2BTV, KindB2CAccessory:
		return k, nil
	}
	return "", invalidf("parse sale kind", "unknown sale type %q", s)
}

// DeleteSale reverses sale id of the given kind: the unit becomes available
// again, or the quantity returns to the location it was sold from, and the
// sale row is removed.
func (l *Ledger) DeleteSale(ctx context.Context, p auth.Principal, kind SaleKind, id uint) error {
	const op = "delete sale"
	if _, err := ParseSaleKind(string(kind)); err != nil {
		return invalidf(op, "unknown sale type %q", kind)
	}
	if id == 0 {
		return invalidf(op, "sale id is required")
	}
	return l.transition(ctx, op, p, saleDelete, func(tx *gorm.DB, f *fields) error {
		f.add(zap.String("sale_kind", string(kind)), zap.Uint("sale_id", id))
		switch kind {
		case KindB2BTV:
			return withLocked(tx, "sale", "id", id, func(s *models.B2BTVSale) error {
				return releaseUnit(tx, s, s.ProductID, f)
			})
		case KindB2CTV:
			return withLocked(tx, "sale", "id", id, func(s *models.B2CTVSale) error {
				return releaseUnit(tx, s, s.ProductID, f)
			})
		default:
			return withLocked(tx, "sale", "id", id, func(s *models.AccessorySale) error {
				loc := restoreLocation(s.LabourName)
				return withLocked(tx, "accessory", "item_name", s.ItemName, func(st *models.AccessoryStock) error {
					if err := shift(tx, st, loc, s.Quantity); err != nil {
						return err
					}
					f.add(zap.String("item", st.ItemName), zap.Int(loc.column(), loc.Count(st)))
					return tx.Delete(s).Error
				})
			})
		}
	})
}

// releaseUnit flips the sold unit back to available and deletes sale.
func releaseUnit(tx *gorm.DB, sale any, unitID uint, f *fields) error {
	return withLocked(tx, "tv unit", "id", unitID, func(u *models.TVUnit) error {
		if err := tx.Model(u).Update("status", models.UnitAvailable).Error; err != nil {
			return err
		}
		f.add(zap.Uint("unit_id", u.ID), zap.String("serial", u.SerialNumber))
		return tx.Delete(sale).Error
	})
}
