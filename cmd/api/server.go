package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"paycheck_pilot/internal/api/handlers/accounts"
	"paycheck_pilot/internal/api/handlers/categories"
	"paycheck_pilot/internal/api/handlers/payperiods"
	"paycheck_pilot/internal/api/handlers/planned"
	"paycheck_pilot/internal/api/handlers/portability"
	"paycheck_pilot/internal/api/handlers/savings"
	"paycheck_pilot/internal/api/handlers/transactions"
	mw "paycheck_pilot/internal/api/middlewares"
	"paycheck_pilot/internal/api/routers"
	"paycheck_pilot/internal/ledger"
	"paycheck_pilot/internal/repositories/sqlconnect"
	"paycheck_pilot/pkg/cron"
	"paycheck_pilot/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	utils.InitLogger()

	db, err := sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}
	defer db.Close()

	if err := sqlconnect.Migrate(db); err != nil {
		utils.Logger.Fatal("Schema migration failed: ", err)
	}

	store := ledger.NewStore(db)
	payments := ledger.NewPlannedPayments(store)
	reconciler := ledger.NewReconciler(store)
	exporter := ledger.NewExporter(store)
	summaries := ledger.NewSummaries(store)

	router := routers.MainRouter(routers.Handlers{
		Accounts:     accounts.NewHandler(db),
		Categories:   categories.NewHandler(db),
		PayPeriods:   payperiods.NewHandler(db, summaries),
		Transactions: transactions.NewHandler(db, store),
		Planned:      planned.NewHandler(db, store, payments),
		Savings:      savings.NewHandler(db, store, summaries),
		Portability:  portability.NewHandler(db, exporter, reconciler),
	})

	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/health")
	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	c := cron.StartCronJob(db, payments)
	defer c.Stop()

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
	}

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	fmt.Println("Server is running on port", port)
	if cert != "" && key != "" {
		server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
