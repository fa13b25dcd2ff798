package models

import "database/sql"

const (
	CategoryKindIncome     = "income"
	CategoryKindExpense    = "expense"
	CategoryKindTransfer   = "transfer"
	CategoryKindAdjustment = "adjustment"
)

// Category rows with a NULL owner_id are global and shared across users.
type Category struct {
	ID      int64         `json:"id,omitempty" db:"id,omitempty"`
	OwnerID sql.NullInt64 `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	Name    string        `json:"name,omitempty" db:"name,omitempty"`
	Kind    string        `json:"kind,omitempty" db:"kind,omitempty"`
}

func ValidCategoryKind(k string) bool {
	switch k {
	case CategoryKindIncome, CategoryKindExpense, CategoryKindTransfer, CategoryKindAdjustment:
		return true
	}
	return false
}
