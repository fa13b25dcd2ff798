package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/accounts"
)

func accountsRouter(h *accounts.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /accounts", h.CreateAccount)
	mux.HandleFunc("GET /accounts", h.ListAccounts)
	mux.HandleFunc("GET /accounts/{id}", h.GetAccount)
	mux.HandleFunc("PATCH /accounts/{id}", h.PatchAccount)
	mux.HandleFunc("DELETE /accounts/{id}", h.DeleteAccount)

	return mux
}
