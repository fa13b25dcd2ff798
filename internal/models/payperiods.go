package models

// PayPeriod anchors a 14-day cash-flow window at PayDate.
// Unique per (owner_id, pay_date).
type PayPeriod struct {
	ID               int64  `json:"id,omitempty" db:"id,omitempty"`
	OwnerID          int64  `json:"owner_id,omitempty" db:"owner_id,omitempty"`
	PayDate          string `json:"pay_date,omitempty" db:"pay_date,omitempty"`
	GrossIncomeCents int64  `json:"gross_income_cents" db:"gross_income_cents"`
	Note             string `json:"note,omitempty" db:"note,omitempty"`
}
