package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"paycheck_pilot/internal/ledger"
	"paycheck_pilot/pkg/utils"
)

// WriteLedgerError maps core error kinds onto HTTP status codes. Domain
// errors go back verbatim; only store failures are logged.
func WriteLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidState):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ledger.ErrInvalidInput):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrConflict):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	default:
		utils.Logger.Errorf("store failure: %v", err)
		utils.WriteError(w, "service unavailable, try again", http.StatusServiceUnavailable)
	}
}

// OwnerID pulls the authenticated owner id out of the request, writing
// the 401 itself when absent.
func OwnerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, err := utils.OwnerIDFromContext(r.Context())
	if err != nil {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return ownerID, true
}

// PathID parses the {id} path segment.
func PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// ParseAmountCents converts a display amount like "123.45" into integer
// cents, rejecting more than two decimal places.
func ParseAmountCents(display string) (int64, error) {
	d, err := decimal.NewFromString(display)
	if err != nil {
		return 0, errors.New("invalid amount")
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, errors.New("amount has more than two decimal places")
	}
	return cents.IntPart(), nil
}

// FormatCents renders integer cents as a display amount string.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
