// Package policy wires the role gate, sessions, ledger and handlers together.
package policy

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/internal/handlers"
	"github.com/diewo77/tvstock/internal/history"
	"github.com/diewo77/tvstock/internal/ledger"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	AuthGate *AuthGate
	Sessions *auth.Sessions
	Ledger   *ledger.Ledger

	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler
	StockHandler     *handlers.StockHandler
	SalesHandler     *handlers.SalesHandler
	HistoryHandler   *handlers.HistoryHandler
	APIHandler       *handlers.APIHandler
	HealthHandler    *handlers.HealthHandler
}

// NewRouterConfig builds the ledger and history store over db and the
// handlers that serve them. driverName is the database/sql driver of db.
func NewRouterConfig(db *gorm.DB, driverName string, sessions *auth.Sessions, log *zap.Logger) (*RouterConfig, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("router config: %w", err)
	}
	g := ledger.NewGate()
	l := ledger.New(db, ledger.WithGate(g), ledger.WithLogger(log))
	sessions.SetUserVerifier(handlers.VerifyUser(db))

	return &RouterConfig{
		AuthGate:         NewAuthGate(g),
		Sessions:         sessions,
		Ledger:           l,
		AuthHandler:      handlers.NewAuthHandler(db, sessions, log),
		DashboardHandler: handlers.NewDashboardHandler(l, log),
		StockHandler:     handlers.NewStockHandler(l, log),
		SalesHandler:     handlers.NewSalesHandler(l, log),
		HistoryHandler:   handlers.NewHistoryHandler(history.NewStore(sqlDB, driverName), log),
		APIHandler:       handlers.NewAPIHandler(l, log),
		HealthHandler:    handlers.NewHealthHandler(db),
	}, nil
}
