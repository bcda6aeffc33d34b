// Package httpx holds JSON response helpers and the ledger error to HTTP status mapping.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/tvstock/internal/ledger"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}

// StatusFor maps a ledger error kind to its HTTP status.
func StatusFor(err error) int {
	switch ledger.KindOf(err) {
	case ledger.InvalidInput:
		return http.StatusBadRequest
	case ledger.Unauthorized:
		return http.StatusForbidden
	case ledger.NotFound:
		return http.StatusNotFound
	case ledger.DuplicateKey, ledger.AlreadySold:
		return http.StatusConflict
	case ledger.InsufficientStock:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Message is the text shown to a user for err. Store failures stay generic.
func Message(err error) string {
	var le *ledger.Error
	if !errors.As(err, &le) || le.Kind == ledger.Internal {
		return "internal error"
	}
	return le.Message()
}

// LedgerError writes err as {"error": kind, "message": text} with StatusFor's status.
func LedgerError(w http.ResponseWriter, err error) {
	JSON(w, StatusFor(err), ErrorResponse{Error: ledger.KindOf(err).String(), Message: Message(err)})
}
