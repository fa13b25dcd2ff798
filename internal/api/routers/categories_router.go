package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/categories"
)

func categoriesRouter(h *categories.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /categories", h.CreateCategory)
	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.HandleFunc("PATCH /categories/{id}", h.PatchCategory)
	mux.HandleFunc("DELETE /categories/{id}", h.DeleteCategory)

	return mux
}
