package portability

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"paycheck_pilot/internal/api/handlers"
	"paycheck_pilot/internal/ledger"
	"paycheck_pilot/internal/models"
	"paycheck_pilot/pkg/utils"
)

type Handler struct {
	DB         *sql.DB
	Exporter   *ledger.Exporter
	Reconciler *ledger.Reconciler
}

func NewHandler(db *sql.DB, exporter *ledger.Exporter, reconciler *ledger.Reconciler) *Handler {
	return &Handler{DB: db, Exporter: exporter, Reconciler: reconciler}
}

// FUNC TO EXPORT THE FULL LEDGER AS ONE SNAPSHOT
func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	// Export walks every table, so it gets a longer leash than the
	// usual five seconds.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	snapshot, err := h.Exporter.Export(ctx, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Status string                `json:"status"`
		Data   models.ExportSnapshot `json:"data"`
	}{Status: "success", Data: snapshot})
}

// FUNC TO IMPORT A SNAPSHOT BATCH
// ?dry_run=true reports what a full import would insert without
// touching the store.
func (h *Handler) ImportLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	dryRun := r.URL.Query().Get("dry_run") == "true"

	// A full export snapshot decodes here as-is; its envelope fields are
	// simply ignored, so export output round-trips into import unchanged.
	// A bare batch without the envelope works too.
	var snapshot models.ExportSnapshot
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&snapshot); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	summary, err := h.Reconciler.Reconcile(ctx, ownerID, snapshot.ImportBatch, dryRun)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Status string               `json:"status"`
		Data   models.ImportSummary `json:"data"`
	}{Status: "success", Data: summary})
}
