package payperiods

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
	DB        *sql.DB
	Summaries *ledger.Summaries
}

func NewHandler(db *sql.DB, summaries *ledger.Summaries) *Handler {
	return &Handler{DB: db, Summaries: summaries}
}

// FUNC TO UPSERT A PAY PERIOD
// Pay periods are unique per (owner, pay_date); posting the same date
// again overwrites gross income and note.
func (h *Handler) UpsertPayPeriod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		PayDate          string `json:"pay_date"`
		GrossIncomeCents int64  `json:"gross_income_cents"`
		Note             string `json:"note"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := ledger.ValidateDate(req.PayDate); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if req.GrossIncomeCents < 0 {
		utils.WriteError(w, "gross income must not be negative", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.DB.ExecContext(ctx,
		"INSERT INTO pay_periods (owner_id, pay_date, gross_income_cents, note) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE gross_income_cents = VALUES(gross_income_cents), note = VALUES(note)",
		ownerID, req.PayDate, req.GrossIncomeCents, req.Note)
	if err != nil {
		utils.Logger.Errorf("error upserting pay period: %v", err)
		utils.WriteError(w, "error saving pay period", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}{Status: "success", ID: id})
}

// FUNC TO LIST PAY PERIODS
func (h *Handler) ListPayPeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.DB.QueryContext(ctx, "SELECT id, pay_date, gross_income_cents, note FROM pay_periods WHERE owner_id = ? ORDER BY pay_date DESC", ownerID)
	if err != nil {
		utils.Logger.Errorf("error fetching pay periods: %v", err)
		utils.WriteError(w, "error fetching pay periods", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	periods := []models.PayPeriod{}
	for rows.Next() {
		var p models.PayPeriod
		if err := rows.Scan(&p.ID, &p.PayDate, &p.GrossIncomeCents, &p.Note); err != nil {
			utils.Logger.Errorf("error scanning pay period: %v", err)
			utils.WriteError(w, "error fetching pay periods", http.StatusInternalServerError)
			return
		}
		p.OwnerID = ownerID
		periods = append(periods, p)
	}

	utils.WriteJSON(w, struct {
		Status string             `json:"status"`
		Count  int                `json:"count"`
		Data   []models.PayPeriod `json:"data"`
	}{Status: "success", Count: len(periods), Data: periods})
}

// FUNC TO PATCH A PAY PERIOD
func (h *Handler) PatchPayPeriod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}

	var patch models.PayPeriodPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var gross int64
	var note string
	err := h.DB.QueryRowContext(ctx, "SELECT gross_income_cents, note FROM pay_periods WHERE id = ? AND owner_id = ?", id, ownerID).Scan(&gross, &note)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "pay period not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching pay period: %v", err)
		utils.WriteError(w, "error fetching pay period", http.StatusInternalServerError)
		return
	}

	if patch.GrossIncomeCents != nil {
		gross = *patch.GrossIncomeCents
	}
	if patch.Note != nil {
		note = *patch.Note
	}
	if gross < 0 {
		utils.WriteError(w, "gross income must not be negative", http.StatusBadRequest)
		return
	}

	_, err = h.DB.ExecContext(ctx, "UPDATE pay_periods SET gross_income_cents = ?, note = ? WHERE id = ? AND owner_id = ?", gross, note, id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error updating pay period: %v", err)
		utils.WriteError(w, "error updating pay period", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO GET THE PERIOD SUMMARY (LEFTOVER)
func (h *Handler) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Summaries.PeriodSummary(ctx, ownerID, id)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Status string               `json:"status"`
		Data   ledger.PeriodSummary `json:"data"`
	}{Status: "success", Data: summary})
}
