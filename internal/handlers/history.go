package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/httpx"
	"github.com/diewo77/tvstock/internal/export"
	"github.com/diewo77/tvstock/internal/history"
)

// HistoryQuerier is the read model behind the history pages.
type HistoryQuerier interface {
	Query(ctx context.Context, f history.Filter) (*history.Result, error)
}

type HistoryHandler struct {
	store HistoryQuerier
	log   *zap.Logger
}

func NewHistoryHandler(store HistoryQuerier, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, log: log.Named("history")}
}

// List shows TV and accessory sales matching the query string filter.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	res, ok := h.query(w, r)
	if !ok {
		return
	}
	if auth.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, res)
		return
	}
	render(w, r, h.log, "sales_history.html", map[string]any{
		"TVSales":        res.TVSales,
		"AccessorySales": res.AccessorySales,
		"Filter":         res.Filter,
		"Sort":           res.Sort,
		"DateErrors":     res.DateErrors,
	})
}

// ExportTV downloads the filtered TV sales as a workbook.
func (h *HistoryHandler) ExportTV(w http.ResponseWriter, r *http.Request) {
	res, ok := h.query(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.TVSales(&buf, res.TVSales); err != nil {
		h.exportFailed(w, err)
		return
	}
	attachment(w, export.TVFilename, &buf)
}

// ExportAccessories downloads the filtered accessory sales as a workbook.
func (h *HistoryHandler) ExportAccessories(w http.ResponseWriter, r *http.Request) {
	res, ok := h.query(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.AccessorySales(&buf, res.AccessorySales); err != nil {
		h.exportFailed(w, err)
		return
	}
	attachment(w, export.AccessoryFilename, &buf)
}

func (h *HistoryHandler) query(w http.ResponseWriter, r *http.Request) (*history.Result, bool) {
	res, err := h.store.Query(r.Context(), history.FilterFromQuery(r.URL.Query()))
	if err != nil {
		h.log.Error("history query", zap.Error(err))
		if auth.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, "internal", nil)
		} else {
			renderError(w, r, h.log, http.StatusInternalServerError, "internal error", nil)
		}
		return nil, false
	}
	return res, true
}

func (h *HistoryHandler) exportFailed(w http.ResponseWriter, err error) {
	h.log.Error("export", zap.Error(err))
	http.Error(w, "export failed", http.StatusInternalServerError)
}

func attachment(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
