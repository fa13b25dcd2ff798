package categories

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

// FUNC TO CREATE A CATEGORY
// (owner_id, name) is unique with NULL treated as its own value, so an
// owner can shadow a global name but not duplicate their own.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ownerID, ok := handlers.OwnerID(w, r)
	if !ok {
		return
	}

	type request struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
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
	if !models.ValidCategoryKind(req.Kind) {
		utils.WriteError(w, "kind must be one of income, expense, transfer, adjustment", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.DB.ExecContext(ctx, "INSERT INTO categories (owner_id, name, kind) VALUES (?, ?, ?)", ownerID, req.Name, req.Kind)
	if err != nil {
		if ledger.IsDuplicateEntry(err) {
			utils.WriteError(w, "category name already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("error creating category: %v", err)
		utils.WriteError(w, "error creating category", http.StatusInternalServerError)
		return
	}
	id, _ := res.LastInsertId()

	utils.WriteJSONStatus(w, http.StatusCreated, struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}{Status: "success", ID: id})
}

// FUNC TO LIST CATEGORIES (OWNED + GLOBAL)
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.DB.QueryContext(ctx, "SELECT id, owner_id, name, kind FROM categories WHERE owner_id = ? OR owner_id IS NULL ORDER BY name", ownerID)
	if err != nil {
		utils.Logger.Errorf("error fetching categories: %v", err)
		utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind); err != nil {
			utils.Logger.Errorf("error scanning category: %v", err)
			utils.WriteError(w, "error fetching categories", http.StatusInternalServerError)
			return
		}
		categories = append(categories, c)
	}

	utils.WriteJSON(w, struct {
		Status string            `json:"status"`
		Count  int               `json:"count"`
		Data   []models.Category `json:"data"`
	}{Status: "success", Count: len(categories), Data: categories})
}

// FUNC TO PATCH A CATEGORY
// Global rows are read-only here; only the owner's rows match.
func (h *Handler) PatchCategory(w http.ResponseWriter, r *http.Request) {
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

	var patch models.CategoryPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var c models.Category
	err := h.DB.QueryRowContext(ctx, "SELECT name, kind FROM categories WHERE id = ? AND owner_id = ?", id, ownerID).Scan(&c.Name, &c.Kind)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "category not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching category: %v", err)
		utils.WriteError(w, "error fetching category", http.StatusInternalServerError)
		return
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Kind != nil {
		c.Kind = *patch.Kind
	}
	if c.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}
	if !models.ValidCategoryKind(c.Kind) {
		utils.WriteError(w, "kind must be one of income, expense, transfer, adjustment", http.StatusBadRequest)
		return
	}

	_, err = h.DB.ExecContext(ctx, "UPDATE categories SET name = ?, kind = ? WHERE id = ? AND owner_id = ?", c.Name, c.Kind, id, ownerID)
	if err != nil {
		if ledger.IsDuplicateEntry(err) {
			utils.WriteError(w, "category name already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("error updating category: %v", err)
		utils.WriteError(w, "error updating category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}

// FUNC TO DELETE A CATEGORY
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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
	err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE category_id = ?", id).Scan(&dependents)
	if err != nil {
		utils.Logger.Errorf("error checking category dependents: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}
	if dependents > 0 {
		utils.WriteError(w, "category still has transactions", http.StatusConflict)
		return
	}

	res, err := h.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		utils.Logger.Errorf("error deleting category: %v", err)
		utils.WriteError(w, "error deleting category", http.StatusInternalServerError)
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.WriteError(w, "category not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, struct {
		Status string `json:"status"`
	}{Status: "success"})
}
