package ledger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/models"
)

// TVSpec describes a television on intake or correction.
type TVSpec struct {
	Serial string
	Brand  string
	Size   string
}

func (s TVSpec) normalize(op string) (TVSpec, error) {
	s.Serial = strings.TrimSpace(s.Serial)
	s.Brand = strings.TrimSpace(s.Brand)
	s.Size = strings.TrimSpace(s.Size)
	switch {
	case s.Serial == "":
		return s, invalidf(op, "serial number is required")
	case s.Brand == "":
		return s, invalidf(op, "brand is required")
	case s.Size == "":
		return s, invalidf(op, "size is required")
	}
	return s, nil
}

// AddTVUnit records a new available unit. A serial that already exists is
// DuplicateKey.
func (l *Ledger) AddTVUnit(ctx context.Context, p auth.Principal, spec TVSpec) (*models.TVUnit, error) {
	const op = "add tv unit"
	spec, err := spec.normalize(op)
	if err != nil {
		return nil, err
	}
	unit := &models.TVUnit{SerialNumber: spec.Serial, Brand: spec.Brand, Size: spec.Size, Status: models.UnitAvailable}
	err = l.transition(ctx, op, p, stockCreate, func(tx *gorm.DB, f *fields) error {
		f.add(zap.String("serial", spec.Serial))
		if err := serialFree(tx, spec.Serial, 0); err != nil {
			return err
		}
		if err := tx.Create(unit).Error; err != nil {
			return err
		}
		f.add(zap.Uint("unit_id", unit.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// EditTVUnit corrects the serial, brand and size of unit id. Sales already
// recorded keep their brand and size snapshot.
func (l *Ledger) EditTVUnit(ctx context.Context, p auth.Principal, id uint, spec TVSpec) (*models.TVUnit, error) {
	const op = "edit tv unit"
	spec, err := spec.normalize(op)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, invalidf(op, "unit id is required")
	}
	var edited models.TVUnit
	err = l.transition(ctx, op, p, stockUpdate, func(tx *gorm.DB, f *fields) error {
		f.add(zap.Uint("unit_id", id), zap.String("serial", spec.Serial))
		return withLocked(tx, "tv unit", "id", id, func(u *models.TVUnit) error {
			if u.SerialNumber != spec.Serial {
				if err := serialFree(tx, spec.Serial, u.ID); err != nil {
					return err
				}
			}
			u.SerialNumber, u.Brand, u.Size = spec.Serial, spec.Brand, spec.Size
			if err := tx.Model(u).Select("serial_number", "brand", "size").Updates(u).Error; err != nil {
				return err
			}
			edited = *u
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// serialFree is the friendly pre-check; the unique index still has the last word.
func serialFree(tx *gorm.DB, serial string, except uint) error {
	var n int64
	q := tx.Model(&models.TVUnit{}).Where("serial_number = ?", serial)
	if except != 0 {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return newError(DuplicateKey, "", "tv with serial "+serial+" already exists", nil)
	}
	return nil
}

// AddAccessoryStock adds mainDelta units of itemName to the main location,
// creating the item with empty prabhu and tamil counters on first intake.
func (l *Ledger) AddAccessoryStock(ctx context.Context, p auth.Principal, itemName string, mainDelta int) (*models.AccessoryStock, error) {
	const op = "add accessory stock"
	name := strings.TrimSpace(itemName)
	if name == "" {
		return nil, invalidf(op, "item name is required")
	}
	if mainDelta < 0 {
		return nil, invalidf(op, "stock value cannot be negative")
	}
	stock, err := l.addAccessoryStock(ctx, op, p, name, mainDelta)
	if retryable(err) {
		// Lost the race to create the same new item; the row exists now.
		stock, err = l.addAccessoryStock(ctx, op, p, name, mainDelta)
	}
	return stock, err
}

func (l *Ledger) addAccessoryStock(ctx context.Context, op string, p auth.Principal, name string, delta int) (*models.AccessoryStock, error) {
	var result models.AccessoryStock
	err := l.transition(ctx, op, p, stockCreate, func(tx *gorm.DB, f *fields) error {
		f.add(zap.String("item", name), zap.Int("main_delta", delta))
		err := withLocked(tx, "accessory", "item_name", name, func(s *models.AccessoryStock) error {
			if err := tx.Model(s).Update("main_stock", gorm.Expr("main_stock + ?", delta)).Error; err != nil {
				return err
			}
			s.MainStock += delta
			result = *s
			return nil
		})
		if KindOf(err) == NotFound {
			result = models.AccessoryStock{ItemName: name, MainStock: delta}
			err = tx.Create(&result).Error
		}
		if err == nil {
			f.add(zap.Int("main_stock", result.MainStock))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
