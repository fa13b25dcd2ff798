package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/planned"
)

func plannedPaymentsRouter(h *planned.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /planned-payments", h.CreatePlannedPayment)
	mux.HandleFunc("GET /planned-payments", h.ListPlannedPayments)
	mux.HandleFunc("GET /planned-payments/{id}", h.GetPlannedPayment)
	mux.HandleFunc("PATCH /planned-payments/{id}", h.PatchPlannedPayment)
	mux.HandleFunc("POST /planned-payments/{id}/execute", h.ExecutePlannedPayment)
	mux.HandleFunc("POST /planned-payments/{id}/cancel", h.CancelPlannedPayment)

	return mux
}
