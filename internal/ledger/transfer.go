package ledger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/models"
)

// TransferAccessory moves quantity units of item from one location to another
// in a single update. Moving to the same location is rejected.
func (l *Ledger) TransferAccessory(ctx context.Context, p auth.Principal, item string, from, to Location, quantity int) (*models.AccessoryStock, error) {
	const op = "transfer accessory"
	item = strings.TrimSpace(item)
	switch {
	case quantity <= 0:
		return nil, invalidf(op, "quantity must be positive")
	case item == "":
		return nil, invalidf(op, "item name is required")
	case !from.Valid() || !to.Valid():
		return nil, invalidf(op, "unknown location")
	case from == to:
		return nil, invalidf(op, "source and destination are both %s", from)
	}
	var result models.AccessoryStock
	err := l.transition(ctx, op, p, transferMove, func(tx *gorm.DB, f *fields) error {
		f.add(zap.String("item", item), zap.Int("quantity", quantity), zap.Stringer("from", from), zap.Stringer("to", to))
		return withLocked(tx, "accessory", "item_name", item, func(s *models.AccessoryStock) error {
			if have := from.Count(s); have < quantity {
				return newError(InsufficientStock, "", insufficient(from, have, quantity), nil)
			}
			err := tx.Model(s).Updates(map[string]any{
				from.column(): gorm.Expr(from.column()+" - ?", quantity),
				to.column():   gorm.Expr(to.column()+" + ?", quantity),
			}).Error
			if err != nil {
				return err
			}
			*from.counter(s) -= quantity
			*to.counter(s) += quantity
			result = *s
			f.add(zap.Int(from.column(), from.Count(s)), zap.Int(to.column(), to.Count(s)))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// shift adds delta to s's counter at loc, in the store and on s.
func shift(tx *gorm.DB, s *models.AccessoryStock, loc Location, delta int) error {
	col := loc.column()
	if err := tx.Model(s).Update(col, gorm.Expr(col+" + ?", delta)).Error; err != nil {
		return err
	}
	*loc.counter(s) += delta
	return nil
}

func insufficient(loc Location, have, want int) string {
	return fmt.Sprintf("insufficient stock in %s: have %d, need %d", loc, have, want)
}
