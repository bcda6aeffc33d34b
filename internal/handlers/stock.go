package handlers

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/diewo77/tvstock/internal/ledger"
	"github.com/diewo77/tvstock/validation"
)

type StockHandler struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewStockHandler(l *ledger.Ledger, log *zap.Logger) *StockHandler {
	return &StockHandler{ledger: l, log: log.Named("stock")}
}

func (h *StockHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.log, "add_stock.html", nil)
}

func tvSpec(form url.Values) ledger.TVSpec {
	return ledger.TVSpec{Serial: form.Get("serial_number"), Brand: form.Get("brand"), Size: form.Get("size")}
}

// AddTV registers a new television unit.
func (h *StockHandler) AddTV(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	unit, err := h.ledger.AddTVUnit(r.Context(), principal(r), tvSpec(form))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusCreated, "/dashboard", unit)
}

// EditTV corrects the serial, brand or size of a unit.
func (h *StockHandler) EditTV(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	v := make(validation.Violations)
	id := validation.ID("id", form.Get("id"), v)
	if !v.Empty() {
		invalid(w, r, h.log, v)
		return
	}
	unit, err := h.ledger.EditTVUnit(r.Context(), principal(r), id, tvSpec(form))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusOK, "/dashboard", unit)
}

// AddAccessory adds quantity to an item's main counter, creating the item
// on first intake.
func (h *StockHandler) AddAccessory(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	v := make(validation.Violations)
	validation.Required("item_name", form.Get("item_name"), v)
	qty := validation.Int("main_stock", form.Get("main_stock"), 0, v)
	if !v.Empty() {
		invalid(w, r, h.log, v)
		return
	}
	stock, err := h.ledger.AddAccessoryStock(r.Context(), principal(r), form.Get("item_name"), qty)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusOK, "/dashboard", stock)
}
