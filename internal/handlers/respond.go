package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/httpx"
	"github.com/diewo77/tvstock/internal/ledger"
	"github.com/diewo77/tvstock/validation"
	"github.com/diewo77/tvstock/view"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}

// formValues returns the submitted fields of r. A JSON object body is
// flattened into the same shape as a form post.
func formValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	vals := make(url.Values, len(body))
	for k, v := range body {
		switch v := v.(type) {
		case nil:
		case string:
			vals.Set(k, v)
		case json.Number:
			vals.Set(k, v.String())
		case bool:
			vals.Set(k, strconv.FormatBool(v))
		default:
			vals.Set(k, fmt.Sprint(v))
		}
	}
	return vals, nil
}

// succeed answers a completed mutation: JSON clients get payload, browsers
// are sent to redirect.
func succeed(w http.ResponseWriter, r *http.Request, status int, redirect string, payload any) {
	if auth.WantsJSON(r) {
		httpx.JSON(w, status, payload)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// fail reports a ledger error with the status of its kind.
func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := httpx.StatusFor(err)
	if ledger.KindOf(err) == ledger.Internal {
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if auth.WantsJSON(r) {
		httpx.LedgerError(w, err)
		return
	}
	renderError(w, r, log, status, httpx.Message(err), nil)
}

// invalid reports field violations found before reaching the ledger.
func invalid(w http.ResponseWriter, r *http.Request, log *zap.Logger, v validation.Violations) {
	if auth.WantsJSON(r) {
		httpx.JSONError(w, http.StatusBadRequest, ledger.InvalidInput.String(), v)
		return
	}
	renderError(w, r, log, http.StatusBadRequest, "Please correct the submitted fields.", v)
}

func badRequest(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	if auth.WantsJSON(r) {
		httpx.JSON(w, http.StatusBadRequest, httpx.ErrorResponse{Error: ledger.InvalidInput.String(), Message: err.Error()})
		return
	}
	renderError(w, r, log, http.StatusBadRequest, "Malformed request.", nil)
}

func renderError(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, msg string, v validation.Violations) {
	data := map[string]any{
		"Status": status,
		"Error":  msg,
		"Errors": v,
	}
	if err := view.RenderStatus(w, r, status, "error.html", data); err != nil {
		log.Error("render error page", zap.Error(err))
		http.Error(w, msg, status)
	}
}

func render(w http.ResponseWriter, r *http.Request, log *zap.Logger, name string, data map[string]any) {
	renderStatus(w, r, log, http.StatusOK, name, data)
}

func renderStatus(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		log.Error("render", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
