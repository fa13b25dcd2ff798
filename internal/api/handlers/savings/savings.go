package savings

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
	Store     *ledger.Store
	Summaries *ledger.Summaries
}

func NewHandler(db *sql.DB, store *ledger.Store, summaries *ledger.Summaries) *Handler {
	return &Handler{DB: db, Store: store, Summaries: summaries}
}

// FUNC TO CREATE A SAVING ENTRY
// Positive amounts are deposits, negative are withdrawals.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		AccountID   int64  `json:"account_id"`
		PayPeriodID *int64 `json:"pay_period_id"`
		AmountCents int64  `json:"amount_cents"`
		EntryDate   string `json:"entry_date"`
		Note        string `json:"note"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := ledger.ValidateSavingAmount(req.AmountCents); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if err := ledger.ValidateDate(req.EntryDate); err != nil {
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

	res, err := h.DB.ExecContext(ctx,
		"INSERT INTO saving_entries (owner_id, pay_period_id, account_id, amount_cents, entry_date, note) VALUES (?, ?, ?, ?, ?, ?)",
		ownerID, payPeriodID, req.AccountID, req.AmountCents, req.EntryDate, req.Note)
	if err != nil {
		utils.Logger.Errorf("error creating saving entry: %v", err)
		utils.WriteError(w, "error creating saving entry", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}{Status: "success", ID: id})
}

// FUNC TO LIST SAVING ENTRIES
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.DB.QueryContext(ctx,
		"SELECT id, pay_period_id, account_id, amount_cents, entry_date, note, created_at FROM saving_entries WHERE owner_id = ? ORDER BY entry_date DESC, id DESC",
		ownerID)
	if err != nil {
		utils.Logger.Errorf("error fetching saving entries: %v", err)
		utils.WriteError(w, "error fetching saving entries", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	entries := []models.SavingEntry{}
	for rows.Next() {
		var e models.SavingEntry
		if err := rows.Scan(&e.ID, &e.PayPeriodID, &e.AccountID, &e.AmountCents, &e.EntryDate, &e.Note, &e.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning saving entry: %v", err)
			utils.WriteError(w, "error fetching saving entries", http.StatusInternalServerError)
			return
		}
		e.OwnerID = ownerID
		entries = append(entries, e)
	}

	utils.WriteJSON(w, struct {
		Status string               `json:"status"`
		Count  int                  `json:"count"`
		Data   []models.SavingEntry `json:"data"`
	}{Status: "success", Count: len(entries), Data: entries})
}

// FUNC TO DELETE A SAVING ENTRY
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
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

	var links int
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM saving_entry_goals WHERE saving_entry_id = ?", id).Scan(&links); err != nil {
		utils.Logger.Errorf("error checking entry links: %v", err)
		utils.WriteError(w, "error deleting saving entry", http.StatusInternalServerError)
		return
	}
	if links > 0 {
		utils.WriteError(w, "saving entry is still linked to goals", http.StatusConflict)
		return
	}

	res, err := h.DB.ExecContext(ctx, "DELETE FROM saving_entries WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error deleting saving entry: %v", err)
		utils.WriteError(w, "error deleting saving entry", http.StatusInternalServerError)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.WriteError(w, "saving entry not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO CREATE A SAVING GOAL
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		Name              string `json:"name"`
		TargetAmountCents int64  `json:"target_amount_cents"`
		TargetDate        string `json:"target_date"`
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
	if err := ledger.ValidateGoalTarget(req.TargetAmountCents, req.TargetDate, time.Now()); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.DB.ExecContext(ctx,
		"INSERT INTO saving_goals (owner_id, name, target_amount_cents, target_date) VALUES (?, ?, ?, ?)",
		ownerID, req.Name, req.TargetAmountCents, req.TargetDate)
	if err != nil {
		utils.Logger.Errorf("error creating saving goal: %v", err)
		utils.WriteError(w, "error creating saving goal", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}{Status: "success", ID: id})
}

// FUNC TO LIST SAVING GOALS
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.DB.QueryContext(ctx,
		"SELECT id, name, target_amount_cents, target_date, created_at FROM saving_goals WHERE owner_id = ? ORDER BY target_date ASC, created_at DESC",
		ownerID)
	if err != nil {
		utils.Logger.Errorf("error fetching saving goals: %v", err)
		utils.WriteError(w, "error fetching saving goals", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	goals := []models.SavingGoal{}
	for rows.Next() {
		var g models.SavingGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmountCents, &g.TargetDate, &g.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning saving goal: %v", err)
			utils.WriteError(w, "error fetching saving goals", http.StatusInternalServerError)
			return
		}
		g.OwnerID = ownerID
		goals = append(goals, g)
	}

	utils.WriteJSON(w, struct {
		Status string              `json:"status"`
		Count  int                 `json:"count"`
		Data   []models.SavingGoal `json:"data"`
	}{Status: "success", Count: len(goals), Data: goals})
}

// FUNC TO PATCH A SAVING GOAL
func (h *Handler) PatchGoal(w http.ResponseWriter, r *http.Request) {
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

	var patch models.SavingGoalPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var g models.SavingGoal
	err := h.DB.QueryRowContext(ctx, "SELECT name, target_amount_cents, target_date FROM saving_goals WHERE id = ? AND owner_id = ?", id, ownerID).
		Scan(&g.Name, &g.TargetAmountCents, &g.TargetDate)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "saving goal not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching saving goal: %v", err)
		utils.WriteError(w, "error fetching saving goal", http.StatusInternalServerError)
		return
	}

	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.TargetAmountCents != nil {
		g.TargetAmountCents = *patch.TargetAmountCents
	}
	if patch.TargetDate != nil {
		g.TargetDate = *patch.TargetDate
	}

	if g.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}
	if g.TargetAmountCents <= 0 {
		utils.WriteError(w, "target amount must be positive", http.StatusBadRequest)
		return
	}
	if err := ledger.ValidateDate(g.TargetDate); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	_, err = h.DB.ExecContext(ctx, "UPDATE saving_goals SET name = ?, target_amount_cents = ?, target_date = ? WHERE id = ? AND owner_id = ?",
		g.Name, g.TargetAmountCents, g.TargetDate, id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error updating saving goal: %v", err)
		utils.WriteError(w, "error updating saving goal", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO DELETE A SAVING GOAL
// A goal with linked saving entries cannot be deleted until unlinked.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	var links int
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM saving_entry_goals WHERE goal_id = ?", id).Scan(&links); err != nil {
		utils.Logger.Errorf("error checking goal links: %v", err)
		utils.WriteError(w, "error deleting saving goal", http.StatusInternalServerError)
		return
	}
	if links > 0 {
		utils.WriteError(w, "goal still has linked saving entries", http.StatusConflict)
		return
	}

	res, err := h.DB.ExecContext(ctx, "DELETE FROM saving_goals WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error deleting saving goal: %v", err)
		utils.WriteError(w, "error deleting saving goal", http.StatusInternalServerError)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.WriteError(w, "saving goal not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO LINK AN ENTRY TO A GOAL
func (h *Handler) LinkEntryToGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		SavingEntryID int64 `json:"saving_entry_id"`
		GoalID        int64 `json:"goal_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	owned, err := h.Store.EntryOwnedBy(ctx, req.SavingEntryID, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if !owned {
		utils.WriteError(w, "saving entry not found", http.StatusNotFound)
		return
	}

	owned, err = h.Store.GoalOwnedBy(ctx, req.GoalID, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if !owned {
		utils.WriteError(w, "saving goal not found", http.StatusNotFound)
		return
	}

	_, err = h.DB.ExecContext(ctx, "INSERT INTO saving_entry_goals (saving_entry_id, goal_id) VALUES (?, ?)", req.SavingEntryID, req.GoalID)
	if err != nil {
		if ledger.IsDuplicateEntry(err) {
			utils.WriteError(w, "entry is already linked to this goal", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("error linking entry to goal: %v", err)
		utils.WriteError(w, "error linking entry to goal", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO UNLINK AN ENTRY FROM A GOAL
func (h *Handler) UnlinkEntryFromGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		SavingEntryID int64 `json:"saving_entry_id"`
		GoalID        int64 `json:"goal_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	owned, err := h.Store.EntryOwnedBy(ctx, req.SavingEntryID, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}
	if !owned {
		utils.WriteError(w, "saving entry not found", http.StatusNotFound)
		return
	}

	res, err := h.DB.ExecContext(ctx, "DELETE FROM saving_entry_goals WHERE saving_entry_id = ? AND goal_id = ?", req.SavingEntryID, req.GoalID)
	if err != nil {
		utils.Logger.Errorf("error unlinking entry from goal: %v", err)
		utils.WriteError(w, "error unlinking entry from goal", http.StatusInternalServerError)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.WriteError(w, "link not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO GET THE SAVINGS SUMMARY
func (h *Handler) GetSavingsSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.Summaries.SavingsSummary(ctx, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Status string                `json:"status"`
		Data   ledger.SavingsSummary `json:"data"`
	}{Status: "success", Data: summary})
}

// FUNC TO GET GOAL PROGRESS
func (h *Handler) GetGoalProgress(w http.ResponseWriter, r *http.Request) {
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

	progress, err := h.Summaries.GoalProgress(ctx, ownerID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, struct {
		Status string                `json:"status"`
		Count  int                   `json:"count"`
		Data   []ledger.GoalProgress `json:"data"`
	}{Status: "success", Count: len(progress), Data: progress})
}
