package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/savings"
)

func savingsRouter(h *savings.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /savings/entries", h.CreateEntry)
	mux.HandleFunc("GET /savings/entries", h.ListEntries)
	mux.HandleFunc("DELETE /savings/entries/{id}", h.DeleteEntry)

	mux.HandleFunc("POST /savings/goals", h.CreateGoal)
	mux.HandleFunc("GET /savings/goals", h.ListGoals)
	mux.HandleFunc("GET /savings/goals/progress", h.GetGoalProgress)
	mux.HandleFunc("PATCH /savings/goals/{id}", h.PatchGoal)
	mux.HandleFunc("DELETE /savings/goals/{id}", h.DeleteGoal)

	mux.HandleFunc("POST /savings/links", h.LinkEntryToGoal)
	mux.HandleFunc("DELETE /savings/links", h.UnlinkEntryFromGoal)

	mux.HandleFunc("GET /savings/summary", h.GetSavingsSummary)

	return mux
}
