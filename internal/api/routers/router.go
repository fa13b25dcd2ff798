package routers

import (
	"net/http"

	"paycheck_pilot/internal/api/handlers/accounts"
	"paycheck_pilot/internal/api/handlers/categories"
	"paycheck_pilot/internal/api/handlers/payperiods"
	"paycheck_pilot/internal/api/handlers/planned"
	"paycheck_pilot/internal/api/handlers/portability"
	"paycheck_pilot/internal/api/handlers/savings"
	"paycheck_pilot/internal/api/handlers/transactions"
)

// Handlers carries every constructed handler the router mounts.
type Handlers struct {
	Accounts     *accounts.Handler
	Categories   *categories.Handler
	PayPeriods   *payperiods.Handler
	Transactions *transactions.Handler
	Planned      *planned.Handler
	Savings      *savings.Handler
	Portability  *portability.Handler
}

func MainRouter(h Handlers) *http.ServeMux {

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	aRouter := accountsRouter(h.Accounts)
	mux.Handle("/accounts", aRouter)
	mux.Handle("/accounts/", aRouter)

	cRouter := categoriesRouter(h.Categories)
	mux.Handle("/categories", cRouter)
	mux.Handle("/categories/", cRouter)

	pRouter := payPeriodsRouter(h.PayPeriods)
	mux.Handle("/pay-periods", pRouter)
	mux.Handle("/pay-periods/", pRouter)

	tRouter := transactionsRouter(h.Transactions)
	mux.Handle("/transactions", tRouter)
	mux.Handle("/transactions/", tRouter)

	ppRouter := plannedPaymentsRouter(h.Planned)
	mux.Handle("/planned-payments", ppRouter)
	mux.Handle("/planned-payments/", ppRouter)

	sRouter := savingsRouter(h.Savings)
	mux.Handle("/savings/", sRouter)

	ioRouter := portabilityRouter(h.Portability)
	mux.Handle("/portability/", ioRouter)

	return mux
}
