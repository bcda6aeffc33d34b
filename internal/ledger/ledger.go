// Package ledger keeps television unit availability and accessory stock
// counters consistent across concurrent intake, sale, transfer and reversal.
//
// Every state transition runs in one store transaction that starts by taking
// an exclusive lock on the rows it reads; any failure rolls the whole
// transition back.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/gate"
)

// Ledger is safe for concurrent use; all coordination happens in the store.
type Ledger struct {
	db   *gorm.DB
	gate *gate.Gate[auth.Principal]
	log  *zap.Logger
	now  func() time.Time
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithGate replaces the default role gate.
func WithGate(g *gate.Gate[auth.Principal]) Option { return func(l *Ledger) { l.gate = g } }

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option { return func(l *Ledger) { l.log = log } }

// WithClock overrides the clock used to date sales that carry no date.
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// New returns a ledger over db.
func New(db *gorm.DB, opts ...Option) *Ledger {
	l := &Ledger{db: db, gate: NewGate(), log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.Named("ledger")
	return l
}

// Authorize checks p against the gate and reports a denial as Unauthorized.
func (l *Ledger) Authorize(ctx context.Context, p auth.Principal, action gate.Action, resource string) error {
	if err := l.authorize(ctx, "authorize", p, access{action, resource}); err != nil {
		return err
	}
	return nil
}

func (l *Ledger) authorize(ctx context.Context, op string, p auth.Principal, need access) *Error {
	if err := l.gate.Authorize(ctx, p, need.action, need.resource); err != nil {
		msg := fmt.Sprintf("not allowed to %s %s", need.action, need.resource)
		return newError(Unauthorized, op, msg, err)
	}
	return nil
}

// access names the permission a transition requires.
type access struct {
	action   gate.Action
	resource string
}

var (
	stockCreate  = access{gate.ActionCreate, gate.ResourceStock}
	stockUpdate  = access{gate.ActionUpdate, gate.ResourceStock}
	saleSell     = access{gate.ActionSell, gate.ResourceSale}
	saleDelete   = access{gate.ActionDelete, gate.ResourceSale}
	transferMove = access{gate.ActionTransfer, gate.ResourceTransfer}
)

// transition authorizes p, then runs fn in one transaction. The returned
// error is always an *Error tagged with op. Committed transitions are logged
// at Info with the fields fn appended; failures at Warn, or Error when the
// store itself failed.
func (l *Ledger) transition(ctx context.Context, op string, p auth.Principal, need access, fn func(tx *gorm.DB, log *fields) error) error {
	if err := l.authorize(ctx, op, p, need); err != nil {
		l.log.Warn("transition denied", zap.String("op", op), zap.Uint("user_id", p.UserID), zap.String("role", p.Role))
		return err
	}
	f := &fields{list: []zap.Field{zap.String("op", op), zap.Uint("user_id", p.UserID)}}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, f)
	})
	if err != nil {
		le := classify(op, err)
		f.add(zap.String("kind", le.Kind.String()), zap.Error(le))
		if le.Kind == Internal {
			l.log.Error("transition failed", f.list...)
		} else {
			l.log.Warn("transition rejected", f.list...)
		}
		return le
	}
	l.log.Info("transition committed", f.list...)
	return nil
}

// fields collects log context while a transition runs.
type fields struct{ list []zap.Field }

func (f *fields) add(fs ...zap.Field) { f.list = append(f.list, fs...) }

// withLocked reads the single T row where column = value under an exclusive
// row lock and hands it to mutate within the same transaction. A missing row
// is NotFound, described by what.
func withLocked[T any](tx *gorm.DB, what, column string, value any, mutate func(row *T) error) error {
	var row T
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(NotFound, "", fmt.Sprintf("%s %v not found", what, value), nil)
	}
	if err != nil {
		return err
	}
	return mutate(&row)
}

// saleDate normalises a sale date to midnight UTC; the zero time means today.
func (l *Ledger) saleDate(d time.Time) time.Time {
	if d.IsZero() {
		d = l.now()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
