package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/transactions"
)

func transactionsRouter(h *transactions.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /transactions", h.CreateTransaction)
	mux.HandleFunc("GET /transactions", h.ListTransactions)
	mux.HandleFunc("GET /transactions/{id}", h.GetTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", h.DeleteTransaction)

	return mux
}
