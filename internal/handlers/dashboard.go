package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/httpx"
	"github.com/diewo77/tvstock/internal/ledger"
	"github.com/diewo77/tvstock/internal/models"
)

type DashboardHandler struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewDashboardHandler(l *ledger.Ledger, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{ledger: l, log: log.Named("dashboard")}
}

// dashboardData is what the dashboard shows, in page and JSON form.
type dashboardData struct {
	Units  []models.TVUnit         `json:"available_units"`
	Brands []string                `json:"brands"`
	Stats  ledger.Stats            `json:"stats"`
	Items  []models.AccessoryStock `json:"accessory_items"`
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		d   dashboardData
		err error
	)
	if d.Units, err = h.ledger.AvailableUnits(ctx); err != nil {
		fail(w, r, h.log, err)
		return
	}
	if d.Brands, err = h.ledger.AvailableBrands(ctx); err != nil {
		fail(w, r, h.log, err)
		return
	}
	if d.Stats, err = h.ledger.Stats(ctx); err != nil {
		fail(w, r, h.log, err)
		return
	}
	if d.Items, err = h.ledger.StockItems(ctx); err != nil {
		fail(w, r, h.log, err)
		return
	}

	if auth.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, d)
		return
	}
	render(w, r, h.log, "dashboard.html", map[string]any{
		"Units":     d.Units,
		"Brands":    d.Brands,
		"Stats":     d.Stats,
		"Items":     d.Items,
		"Locations": ledger.Locations(),
	})
}
