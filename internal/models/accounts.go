package models

import "database/sql"

// Account types accepted by the API and the import path.
const (
	AccountTypeCash    = "cash"
	AccountTypeBank    = "bank"
	AccountTypeCredit  = "credit"
	AccountTypeSavings = "savings"
)

type Account struct {
	ID        int64          `json:"id,omitempty" db:"id,omitempty"`
	OwnerID   int64          `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	Name      string         `json:"name,omitempty" db:"name,omitempty"`
	Type      string         `json:"type,omitempty" db:"type,omitempty"`
	Currency  string         `json:"currency,omitempty" db:"currency,omitempty"`
	IsActive  bool           `json:"is_active" db:"is_active"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}

func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCredit, AccountTypeSavings:
		return true
	}
	return false
}
