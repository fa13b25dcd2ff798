package accounts

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
	DB *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{DB: db}
}

// FUNC TO CREATE AN ACCOUNT
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Currency string `json:"currency"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}
	if !models.ValidAccountType(req.Type) {
		utils.WriteError(w, "type must be one of cash, bank, credit, savings", http.StatusBadRequest)
		return
	}
	if err := ledger.ValidateCurrency(req.Currency); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.DB.ExecContext(ctx, "INSERT INTO accounts (owner_id, name, type, currency, is_active) VALUES (?, ?, ?, ?, TRUE)",
		ownerID, req.Name, req.Type, req.Currency)
	if err != nil {
		utils.Logger.Errorf("error creating account: %v", err)
		utils.WriteError(w, "error creating account", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	response := struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}{
		Status: "success",
		ID:     id,
	}
	utils.WriteJSONStatus(w, http.StatusCreated, response)
}

// FUNC TO LIST ALL ACCOUNTS FOR A USER
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.DB.QueryContext(ctx, "SELECT id, name, type, currency, is_active, created_at FROM accounts WHERE owner_id = ? ORDER BY id", ownerID)
	if err != nil {
		utils.Logger.Errorf("error fetching accounts: %v", err)
		utils.WriteError(w, "error fetching accounts", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.IsActive, &a.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning account: %v", err)
			utils.WriteError(w, "error fetching accounts", http.StatusInternalServerError)
			return
		}
		a.OwnerID = ownerID
		accounts = append(accounts, a)
	}

	response := struct {
		Status string           `json:"status"`
		Count  int              `json:"count"`
		Data   []models.Account `json:"data"`
	}{
		Status: "success",
		Count:  len(accounts),
		Data:   accounts,
	}
	utils.WriteJSON(w, response)
}

// FUNC TO GET ONE ACCOUNT BY ID
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
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

	var a models.Account
	err := h.DB.QueryRowContext(ctx, "SELECT id, name, type, currency, is_active, created_at FROM accounts WHERE id = ? AND owner_id = ?", id, ownerID).
		Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "account not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching account: %v", err)
		utils.WriteError(w, "error fetching account", http.StatusInternalServerError)
		return
	}
	a.OwnerID = ownerID

	utils.WriteJSON(w, struct {
		Status string         `json:"status"`
		Data   models.Account `json:"data"`
	}{Status: "success", Data: a})
}

// FUNC TO PATCH AN ACCOUNT
// Merge rule: a present field overwrites, an absent field leaves the
// stored value unchanged.
func (h *Handler) PatchAccount(w http.ResponseWriter, r *http.Request) {
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

	var patch models.AccountPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var a models.Account
	err := h.DB.QueryRowContext(ctx, "SELECT name, type, currency, is_active FROM accounts WHERE id = ? AND owner_id = ?", id, ownerID).
		Scan(&a.Name, &a.Type, &a.Currency, &a.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "account not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching account: %v", err)
		utils.WriteError(w, "error fetching account", http.StatusInternalServerError)
		return
	}

	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Currency != nil {
		a.Currency = *patch.Currency
	}
	if patch.IsActive != nil {
		a.IsActive = *patch.IsActive
	}

	if a.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}
	if !models.ValidAccountType(a.Type) {
		utils.WriteError(w, "type must be one of cash, bank, credit, savings", http.StatusBadRequest)
		return
	}
	if err := ledger.ValidateCurrency(a.Currency); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	_, err = h.DB.ExecContext(ctx, "UPDATE accounts SET name = ?, type = ?, currency = ?, is_active = ? WHERE id = ? AND owner_id = ?",
		a.Name, a.Type, a.Currency, a.IsActive, id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error updating account: %v", err)
		utils.WriteError(w, "error updating account", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO DELETE AN ACCOUNT
// Refused while dependent rows still reference it.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
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

	var dependents int
	err := h.DB.QueryRowContext(ctx, "SELECT (SELECT COUNT(*) FROM transactions WHERE account_id = ?) + (SELECT COUNT(*) FROM saving_entries WHERE account_id = ?)", id, id).Scan(&dependents)
	if err != nil {
		utils.Logger.Errorf("error checking account dependents: %v", err)
		utils.WriteError(w, "error deleting account", http.StatusInternalServerError)
		return
	}
	if dependents > 0 {
		utils.WriteError(w, "account still has transactions or saving entries", http.StatusConflict)
		return
	}

	res, err := h.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error deleting account: %v", err)
		utils.WriteError(w, "error deleting account", http.StatusInternalServerError)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.WriteError(w, "account not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}
