package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/portability"
)

func portabilityRouter(h *portability.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /portability/export", h.ExportLedger)
	mux.HandleFunc("POST /portability/import", h.ImportLedger)

	return mux
}
