package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/payperiods"
)

func payPeriodsRouter(h *payperiods.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /pay-periods", h.UpsertPayPeriod)
	mux.HandleFunc("GET /pay-periods", h.ListPayPeriods)
	mux.HandleFunc("PATCH /pay-periods/{id}", h.PatchPayPeriod)
	mux.HandleFunc("GET /pay-periods/{id}/summary", h.GetPeriodSummary)

	return mux
}
