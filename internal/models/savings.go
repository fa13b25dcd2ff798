package models

import "database/sql"

// SavingEntry amounts are signed cents: positive deposits, negative
// withdrawals. Zero is never valid.
type SavingEntry struct {
	ID          int64          `json:"id,omitempty" db:"id,omitempty"`
	OwnerID     int64          `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	PayPeriodID sql.NullInt64  `json:"pay_period_id,omitempty" db:"pay_period_id,omitempty"`
	AccountID   int64          `json:"account_id,omitempty" db:"account_id,omitempty"`
	AmountCents int64          `json:"amount_cents" db:"amount_cents"`
	EntryDate   string         `json:"entry_date,omitempty" db:"entry_date,omitempty"`
	Note        string         `json:"note,omitempty" db:"note,omitempty"`
	CreatedAt   sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}

type SavingGoal struct {
	ID                int64          `json:"id,omitempty" db:"id,omitempty"`
	OwnerID           int64          `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	Name              string         `json:"name,omitempty" db:"name,omitempty"`
	TargetAmountCents int64          `json:"target_amount_cents" db:"target_amount_cents"`
	TargetDate        string         `json:"target_date,omitempty" db:"target_date,omitempty"`
	CreatedAt         sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}

// SavingEntryGoal links one entry to one goal; the pair is unique.
type SavingEntryGoal struct {
	SavingEntryID int64 `json:"saving_entry_id,omitempty" db:"saving_entry_id,omitempty"`
	GoalID        int64 `json:"goal_id,omitempty" db:"goal_id,omitempty"`
}
