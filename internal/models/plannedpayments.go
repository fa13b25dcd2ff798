package models

import "database/sql"

const (
	PlannedStatusPlanned  = "planned"
	PlannedStatusExecuted = "executed"
	PlannedStatusCanceled = "canceled"
)

// PlannedPayment stores its amount as a positive magnitude; the sign is
// applied once, when execution turns it into an expense transaction.
type PlannedPayment struct {
	ID          int64          `json:"id,omitempty" db:"id,omitempty"`
	OwnerID     int64          `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	AccountID   sql.NullInt64  `json:"account_id,omitempty" db:"account_id,omitempty"`
	Description string         `json:"description,omitempty" db:"description,omitempty"`
	AmountCents int64          `json:"amount_cents" db:"amount_cents"`
	DueDate     string         `json:"due_date,omitempty" db:"due_date,omitempty"`
	AutoDebit   bool           `json:"auto_debit" db:"auto_debit"`
	Status      string         `json:"status,omitempty" db:"status,omitempty"`
	LinkedTxnID sql.NullInt64  `json:"linked_txn_id,omitempty" db:"linked_txn_id,omitempty"`
	CreatedAt   sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
