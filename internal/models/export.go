package models

// ImportBatch is the tagged batch container the reconciliation engine
// consumes: one strongly-typed slice per supported table. Tables left nil
// are not touched.
type ImportBatch struct {
	Accounts         []Account         `json:"accounts,omitempty"`
	Categories       []Category        `json:"categories,omitempty"`
	PayPeriods       []PayPeriod       `json:"pay_periods,omitempty"`
	Transactions     []Transaction     `json:"transactions,omitempty"`
	PlannedPayments  []PlannedPayment  `json:"planned_payments,omitempty"`
	SavingEntries    []SavingEntry     `json:"saving_entries,omitempty"`
	SavingGoals      []SavingGoal      `json:"saving_goals,omitempty"`
	SavingEntryGoals []SavingEntryGoal `json:"saving_entry_goals,omitempty"`
}

// ExportSnapshot is the read-side mirror of ImportBatch: every row across
// the same table set that belongs to one owner, plus an export timestamp.
// It round-trips as the exact input shape the import path expects.
type ExportSnapshot struct {
	SnapshotID string `json:"snapshot_id"`
	OwnerID    int64  `json:"owner_id"`
	ExportedAt string `json:"exported_at"`
	ImportBatch
}

type TableCounts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

type ImportSummary struct {
	DryRun bool                   `json:"dry_run"`
	Tables map[string]TableCounts `json:"tables"`
	Totals TableCounts            `json:"totals"`
}
