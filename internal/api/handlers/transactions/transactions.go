package transactions

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
	DB    *sql.DB
	Store *ledger.Store
}

func NewHandler(db *sql.DB, store *ledger.Store) *Handler {
	return &Handler{DB: db, Store: store}
}

// FUNC TO CREATE A TRANSACTION
// Every cross-entity reference must resolve to a row the owner is
// entitled to use; none of this is left to foreign keys.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		AccountID          int64  `json:"account_id"`
		PayPeriodID        *int64 `json:"pay_period_id"`
		CategoryID         *int64 `json:"category_id"`
		CounterpartyUserID *int64 `json:"counterparty_user_id"`
		Type               string `json:"type"`
		AmountCents        int64  `json:"amount_cents"`
		Amount             string `json:"amount"`
		Description        string `json:"description"`
		TxnDate            string `json:"txn_date"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// The amount comes in either as integer cents or as a display string
	// like "-25.00", never both.
	if req.Amount != "" {
		if req.AmountCents != 0 {
			utils.WriteError(w, "provide amount or amount_cents, not both", http.StatusBadRequest)
			return
		}
		cents, err := handlers.ParseAmountCents(req.Amount)
		if err != nil {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.AmountCents = cents
	}

	if err := ledger.ValidateTxnAmount(req.Type, req.AmountCents); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if err := ledger.ValidateDate(req.TxnDate); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	owned, err := h.Store.AccountOwnedBy(ctx, req.AccountID, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if !owned {
		utils.WriteError(w, "account not found", http.StatusNotFound)
		return
	}

	var payPeriodID sql.NullInt64
	if req.PayPeriodID != nil {
		owned, err := h.Store.PayPeriodOwnedBy(ctx, *req.PayPeriodID, ownerID)
		if err != nil {
			handlers.WriteLedgerError(w, err)
			return
		}
		if !owned {
			utils.WriteError(w, "pay period not found", http.StatusNotFound)
			return
		}
		payPeriodID = sql.NullInt64{Int64: *req.PayPeriodID, Valid: true}
	}

	var categoryID sql.NullInt64
	if req.CategoryID != nil {
		usable, err := h.Store.CategoryUsableBy(ctx, *req.CategoryID, ownerID)
		if err != nil {
			handlers.WriteLedgerError(w, err)
			return
		}
		if !usable {
			utils.WriteError(w, "category not found", http.StatusNotFound)
			return
		}
		categoryID = sql.NullInt64{Int64: *req.CategoryID, Valid: true}
	}

	var counterparty sql.NullInt64
	if req.CounterpartyUserID != nil {
		exists, err := h.Store.UserExists(ctx, *req.CounterpartyUserID)
		if err != nil {
			handlers.WriteLedgerError(w, err)
			return
		}
		if !exists {
			utils.WriteError(w, "counterparty user not found", http.StatusNotFound)
			return
		}
		counterparty = sql.NullInt64{Int64: *req.CounterpartyUserID, Valid: true}
	}

	res, err := h.DB.ExecContext(ctx,
		"INSERT INTO transactions (owner_id, pay_period_id, account_id, category_id, type, amount_cents, description, txn_date, counterparty_user_id, reference) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		ownerID, payPeriodID, req.AccountID, categoryID, req.Type, req.AmountCents, req.Description, req.TxnDate, counterparty, ledger.NewReference("txn"))
	if err != nil {
		utils.Logger.Errorf("error creating transaction: %v", err)
		utils.WriteError(w, "error creating transaction", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
		Amount string `json:"amount"`
	}{Status: "success", ID: id, Amount: handlers.FormatCents(req.AmountCents)})
}

// FUNC TO GET ALL TRANSACTIONS FOR A USER
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
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

	page, limit := utils.GetPaginationParams(r)
	offset := (page - 1) * limit

	query := "SELECT id, pay_period_id, account_id, category_id, type, amount_cents, description, txn_date, planned_payment_id, counterparty_user_id, reference, created_at FROM transactions WHERE owner_id = ?"
	query = utils.AddSorting(r, query)
	query += " LIMIT ? OFFSET ?"

	rows, err := h.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		utils.Logger.Errorf("error fetching transactions: %v", err)
		utils.WriteError(w, "error fetching transactions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err = rows.Scan(&t.ID, &t.PayPeriodID, &t.AccountID, &t.CategoryID, &t.Type, &t.AmountCents, &t.Description, &t.TxnDate, &t.PlannedPaymentID, &t.CounterpartyUserID, &t.Reference, &t.CreatedAt)
		if err != nil {
			utils.Logger.Errorf("error scanning transaction: %v", err)
			utils.WriteError(w, "error fetching transactions", http.StatusInternalServerError)
			return
		}
		t.OwnerID = ownerID
		transactions = append(transactions, t)
	}

	response := struct {
		Status   string               `json:"status"`
		Count    int                  `json:"count"`
		Page     int                  `json:"page"`
		PageSize int                  `json:"page_size"`
		Data     []models.Transaction `json:"data"`
	}{
		Status:   "success",
		Count:    len(transactions),
		Page:     page,
		PageSize: limit,
		Data:     transactions,
	}
	utils.WriteJSON(w, response)
}

// FUNC TO GET ONE TRANSACTION BY ID
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
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

	var t models.Transaction
	err := h.DB.QueryRowContext(ctx,
		"SELECT id, pay_period_id, account_id, category_id, type, amount_cents, description, txn_date, planned_payment_id, counterparty_user_id, reference, created_at FROM transactions WHERE id = ? AND owner_id = ?",
		id, ownerID).
		Scan(&t.ID, &t.PayPeriodID, &t.AccountID, &t.CategoryID, &t.Type, &t.AmountCents, &t.Description, &t.TxnDate, &t.PlannedPaymentID, &t.CounterpartyUserID, &t.Reference, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "transaction not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching transaction: %v", err)
		utils.WriteError(w, "error fetching transaction", http.StatusInternalServerError)
		return
	}
	t.OwnerID = ownerID

	utils.WriteJSON(w, struct {
		Status string             `json:"status"`
		Data   models.Transaction `json:"data"`
	}{Status: "success", Data: t})
}

// FUNC TO DELETE A TRANSACTION
// A transaction produced by a planned payment stays; the payment's
// linked_txn_id is set exactly once and must keep resolving.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	var linked sql.NullInt64
	err := h.DB.QueryRowContext(ctx, "SELECT planned_payment_id FROM transactions WHERE id = ? AND owner_id = ?", id, ownerID).Scan(&linked)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "transaction not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching transaction: %v", err)
		utils.WriteError(w, "error deleting transaction", http.StatusInternalServerError)
		return
	}
	if linked.Valid {
		utils.WriteError(w, "transaction belongs to an executed planned payment", http.StatusConflict)
		return
	}

	_, err = h.DB.ExecContext(ctx, "DELETE FROM transactions WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error deleting transaction: %v", err)
		utils.WriteError(w, "error deleting transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}
