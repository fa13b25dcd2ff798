package models

// Patch types enumerate every updatable field as a pointer; a nil field
// leaves the stored value unchanged, a non-nil field overwrites it.

type AccountPatch struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	Currency *string `json:"currency,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CategoryPatch struct {
	Name *string `json:"name,omitempty"`
	Kind *string `json:"kind,omitempty"`
}

type PayPeriodPatch struct {
	GrossIncomeCents *int64  `json:"gross_income_cents,omitempty"`
	Note             *string `json:"note,omitempty"`
}

// PlannedPaymentPatch applies only while the payment is still planned.
type PlannedPaymentPatch struct {
	AccountID   *int64  `json:"account_id,omitempty"`
	Description *string `json:"description,omitempty"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	AutoDebit   *bool   `json:"auto_debit,omitempty"`
}

type SavingGoalPatch struct {
	Name              *string `json:"name,omitempty"`
	TargetAmountCents *int64  `json:"target_amount_cents,omitempty"`
	TargetDate        *string `json:"target_date,omitempty"`
}
