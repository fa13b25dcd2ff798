package models

import "database/sql"

const (
	TxnTypeIncome     = "income"
	TxnTypeExpense    = "expense"
	TxnTypeTransfer   = "transfer"
	TxnTypeAdjustment = "adjustment"
)

// Transaction amounts are signed integer cents: positive for
// income/adjustment, negative for expense/transfer. Zero is never valid.
type Transaction struct {
	ID                 int64          `json:"id,omitempty" db:"id,omitempty"`
	OwnerID            int64          `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	PayPeriodID        sql.NullInt64  `json:"pay_period_id,omitempty" db:"pay_period_id,omitempty"`
	AccountID          int64          `json:"account_id,omitempty" db:"account_id,omitempty"`
	CategoryID         sql.NullInt64  `json:"category_id,omitempty" db:"category_id,omitempty"`
	Type               string         `json:"type,omitempty" db:"type,omitempty"`
	AmountCents        int64          `json:"amount_cents" db:"amount_cents"`
	Description        string         `json:"description,omitempty" db:"description,omitempty"`
	TxnDate            string         `json:"txn_date,omitempty" db:"txn_date,omitempty"`
	PlannedPaymentID   sql.NullInt64  `json:"planned_payment_id,omitempty" db:"planned_payment_id,omitempty"`
	CounterpartyUserID sql.NullInt64  `json:"counterparty_user_id,omitempty" db:"counterparty_user_id,omitempty"`
	Reference          string         `json:"reference,omitempty" db:"reference,omitempty"`
	CreatedAt          sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}

func ValidTxnType(t string) bool {
	switch t {
	case TxnTypeIncome, TxnTypeExpense, TxnTypeTransfer, TxnTypeAdjustment:
		return true
	}
	return false
}

// PositiveTxnType reports whether the type carries a positive amount.
func PositiveTxnType(t string) bool {
	return t == TxnTypeIncome || t == TxnTypeAdjustment
}
