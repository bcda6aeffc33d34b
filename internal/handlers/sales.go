package handlers

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/diewo77/tvstock/internal/ledger"
	"github.com/diewo77/tvstock/validation"
)

type SalesHandler struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewSalesHandler(l *ledger.Ledger, log *zap.Logger) *SalesHandler {
	return &SalesHandler{ledger: l, log: log.Named("sales")}
}

type saleCreated struct {
	SaleID uint `json:"sale_id"`
}

func buyer(form url.Values, v validation.Violations) ledger.Buyer {
	return ledger.Buyer{
		Name:     form.Get("name"),
		Phone:    form.Get("phone"),
		Price:    validation.Price("price", form.Get("price"), v),
		Date:     validation.Date("date", form.Get("date"), v),
		Warranty: form.Get("warranty"),
	}
}

// SellTV sells a unit through the channel named in the path.
func (h *SalesHandler) SellTV(w http.ResponseWriter, r *http.Request) {
	ch, err := ledger.ParseChannel(r.PathValue("channel"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	v := make(validation.Violations)
	validation.Required("serial", form.Get("serial"), v)
	b := buyer(form, v)
	if !v.Empty() {
		invalid(w, r, h.log, v)
		return
	}
	id, err := h.ledger.SellTV(r.Context(), principal(r), ch, form.Get("serial"), b)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusCreated, "/dashboard", saleCreated{SaleID: id})
}

// SellAccessory sells a quantity of an item from the location in "labour".
func (h *SalesHandler) SellAccessory(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	v := make(validation.Violations)
	validation.Required("item", form.Get("item"), v)
	qty := validation.Int("quantity", form.Get("quantity"), 0, v)
	validation.PositiveInt("quantity", qty, v)
	b := buyer(form, v)
	if !v.Empty() {
		invalid(w, r, h.log, v)
		return
	}
	loc, err := ledger.ParseSaleLocation(form.Get("labour"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	id, err := h.ledger.SellAccessory(r.Context(), principal(r), ledger.AccessoryOrder{
		Item:     form.Get("item"),
		Quantity: qty,
		Location: loc,
		Buyer:    b,
	})
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusCreated, "/dashboard", saleCreated{SaleID: id})
}

// Transfer moves accessory quantity between two locations.
func (h *SalesHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	v := make(validation.Violations)
	validation.Required("item_name", form.Get("item_name"), v)
	qty := validation.Int("quantity", form.Get("quantity"), 0, v)
	validation.PositiveInt("quantity", qty, v)
	if !v.Empty() {
		invalid(w, r, h.log, v)
		return
	}
	from, err := ledger.ParseLocation(form.Get("from"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	to, err := ledger.ParseLocation(form.Get("to"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	stock, err := h.ledger.TransferAccessory(r.Context(), principal(r), form.Get("item_name"), from, to, qty)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusOK, "/dashboard", stock)
}

// Delete reverses a sale and restores what it consumed.
func (h *SalesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	kind, err := ledger.ParseSaleKind(form.Get("sale_type"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	v := make(validation.Violations)
	id := validation.ID("sale_id", form.Get("sale_id"), v)
	if !v.Empty() {
		invalid(w, r, h.log, v)
		return
	}
	if err := h.ledger.DeleteSale(r.Context(), principal(r), kind, id); err != nil {
		fail(w, r, h.log, err)
		return
	}
	succeed(w, r, http.StatusOK, "/sales/history", map[string]any{"deleted": true, "sale_type": kind, "sale_id": id})
}
