package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/httpx"
	"github.com/diewo77/tvstock/internal/ledger"
)

// APIHandler serves the JSON lookups used by the sale forms.
type APIHandler struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewAPIHandler(l *ledger.Ledger, log *zap.Logger) *APIHandler {
	return &APIHandler{ledger: l, log: log.Named("api")}
}

// Serials lists the serial numbers of available units.
func (h *APIHandler) Serials(w http.ResponseWriter, r *http.Request) {
	serials, err := h.ledger.AvailableSerials(r.Context())
	if err != nil {
		h.log.Error("available serials", zap.Error(err))
		httpx.LedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string][]string{"serials": serials})
}

// Items autocompletes accessory item names from ?query=.
func (h *APIHandler) Items(w http.ResponseWriter, r *http.Request) {
	names, err := h.ledger.SearchItems(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.log.Error("search items", zap.Error(err))
		httpx.LedgerError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string][]string{"results": names})
}

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live answers as long as the process serves requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings the store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
