package planned

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"paycheck_pilot/internal/api/handlers"
	"paycheck_pilot/internal/ledger"
	"paycheck_pilot/internal/models"
	"paycheck_pilot/pkg/utils"
)

type Handler struct {
	DB       *sql.DB
	Store    *ledger.Store
	Payments *ledger.PlannedPayments
}

func NewHandler(db *sql.DB, store *ledger.Store, payments *ledger.PlannedPayments) *Handler {
	return &Handler{DB: db, Store: store, Payments: payments}
}

// FUNC TO CREATE A PLANNED PAYMENT
func (h *Handler) CreatePlannedPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		AccountID   *int64 `json:"account_id"`
		Description string `json:"description"`
		AmountCents int64  `json:"amount_cents"`
		DueDate     string `json:"due_date"`
		AutoDebit   bool   `json:"auto_debit"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := ledger.ValidatePlannedMagnitude(req.AmountCents); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if err := ledger.ValidateDate(req.DueDate); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var accountID sql.NullInt64
	if req.AccountID != nil {
		owned, err := h.Store.AccountOwnedBy(ctx, *req.AccountID, ownerID)
		if err != nil {
			handlers.WriteLedgerError(w, err)
			return
		}
		if !owned {
			utils.WriteError(w, "account not found", http.StatusNotFound)
			return
		}
		accountID = sql.NullInt64{Int64: *req.AccountID, Valid: true}
	}

	res, err := h.DB.ExecContext(ctx,
		"INSERT INTO planned_payments (owner_id, account_id, description, amount_cents, due_date, auto_debit, status) VALUES (?, ?, ?, ?, ?, ?, 'planned')",
		ownerID, accountID, req.Description, req.AmountCents, req.DueDate, req.AutoDebit)
	if err != nil {
		utils.Logger.Errorf("error creating planned payment: %v", err)
		utils.WriteError(w, "error creating planned payment", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}{Status: "success", ID: id})
}

// FUNC TO LIST PLANNED PAYMENTS
func (h *Handler) ListPlannedPayments(w http.ResponseWriter, r *http.Request) {
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

	query := "SELECT id, account_id, description, amount_cents, due_date, auto_debit, status, linked_txn_id, created_at FROM planned_payments WHERE owner_id = ?"
	args := []interface{}{ownerID}

	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY due_date ASC, id ASC"

	rows, err := h.DB.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching planned payments: %v", err)
		utils.WriteError(w, "error fetching planned payments", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	payments := []models.PlannedPayment{}
	for rows.Next() {
		var p models.PlannedPayment
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Description, &p.AmountCents, &p.DueDate, &p.AutoDebit, &p.Status, &p.LinkedTxnID, &p.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning planned payment: %v", err)
			utils.WriteError(w, "error fetching planned payments", http.StatusInternalServerError)
			return
		}
		p.OwnerID = ownerID
		payments = append(payments, p)
	}

	utils.WriteJSON(w, struct {
		Status string                  `json:"status"`
		Count  int                     `json:"count"`
		Data   []models.PlannedPayment `json:"data"`
	}{Status: "success", Count: len(payments), Data: payments})
}

// FUNC TO GET ONE PLANNED PAYMENT
func (h *Handler) GetPlannedPayment(w http.ResponseWriter, r *http.Request) {
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

	var p models.PlannedPayment
	err := h.DB.QueryRowContext(ctx,
		"SELECT id, account_id, description, amount_cents, due_date, auto_debit, status, linked_txn_id, created_at FROM planned_payments WHERE id = ? AND owner_id = ?",
		id, ownerID).
		Scan(&p.ID, &p.AccountID, &p.Description, &p.AmountCents, &p.DueDate, &p.AutoDebit, &p.Status, &p.LinkedTxnID, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "planned payment not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching planned payment: %v", err)
		utils.WriteError(w, "error fetching planned payment", http.StatusInternalServerError)
		return
	}
	p.OwnerID = ownerID

	utils.WriteJSON(w, struct {
		Status string                `json:"status"`
		Data   models.PlannedPayment `json:"data"`
	}{Status: "success", Data: p})
}

// FUNC TO PATCH A PLANNED PAYMENT
// Field-level updates are only legal while the payment is still planned;
// executed and canceled are terminal.
func (h *Handler) PatchPlannedPayment(w http.ResponseWriter, r *http.Request) {
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

	var patch models.PlannedPaymentPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var p models.PlannedPayment
	err := h.DB.QueryRowContext(ctx, "SELECT account_id, description, amount_cents, due_date, auto_debit, status FROM planned_payments WHERE id = ? AND owner_id = ?", id, ownerID).
		Scan(&p.AccountID, &p.Description, &p.AmountCents, &p.DueDate, &p.AutoDebit, &p.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "planned payment not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching planned payment: %v", err)
		utils.WriteError(w, "error fetching planned payment", http.StatusInternalServerError)
		return
	}
	if p.Status != models.PlannedStatusPlanned {
		utils.WriteError(w, "payment is "+p.Status, http.StatusConflict)
		return
	}

	if patch.AccountID != nil {
		owned, err := h.Store.AccountOwnedBy(ctx, *patch.AccountID, ownerID)
		if err != nil {
			handlers.WriteLedgerError(w, err)
			return
		}
		if !owned {
			utils.WriteError(w, "account not found", http.StatusNotFound)
			return
		}
		p.AccountID = sql.NullInt64{Int64: *patch.AccountID, Valid: true}
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.AmountCents != nil {
		p.AmountCents = *patch.AmountCents
	}
	if patch.DueDate != nil {
		p.DueDate = *patch.DueDate
	}
	if patch.AutoDebit != nil {
		p.AutoDebit = *patch.AutoDebit
	}

	if err := ledger.ValidatePlannedMagnitude(p.AmountCents); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if err := ledger.ValidateDate(p.DueDate); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	// Guarded like the lifecycle transitions: the write only lands if
	// the row is still planned.
	res, err := h.DB.ExecContext(ctx,
		"UPDATE planned_payments SET account_id = ?, description = ?, amount_cents = ?, due_date = ?, auto_debit = ? WHERE id = ? AND owner_id = ? AND status = 'planned'",
		p.AccountID, p.Description, p.AmountCents, p.DueDate, p.AutoDebit, id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error updating planned payment: %v", err)
		utils.WriteError(w, "error updating planned payment", http.StatusInternalServerError)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.WriteError(w, "payment is no longer planned", http.StatusConflict)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO EXECUTE A PLANNED PAYMENT
func (h *Handler) ExecutePlannedPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	type request struct {
		TxnDate     string  `json:"txn_date"`
		AccountID   *int64  `json:"account_id"`
		CategoryID  *int64  `json:"category_id"`
		Description *string `json:"description"`
	}

	// An empty body is fine; everything falls back to the payment's own
	// fields and today's date.
	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.TxnDate == "" {
		req.TxnDate = time.Now().UTC().Format("2006-01-02")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	txnID, err := h.Payments.Execute(ctx, ownerID, id, ledger.ExecutionInput{
		TxnDate:     req.TxnDate,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status        string `json:"status"`
		TransactionID int64  `json:"transaction_id"`
	}{Status: "success", TransactionID: txnID})
}

// FUNC TO CANCEL A PLANNED PAYMENT
func (h *Handler) CancelPlannedPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	if err := h.Payments.Cancel(ctx, ownerID, id); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}
