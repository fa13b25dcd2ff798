package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"paycheck_pilot/internal/models"
)

// Exporter is the read-side mirror of the reconciliation engine: one
// self-contained snapshot of every row the owner holds, shaped exactly
// like the import batch.
type Exporter struct {
	store *Store
}

func NewExporter(store *Store) *Exporter {
	return &Exporter{store: store}
}

const (
	qExportAccounts   = "SELECT id, name, type, currency, is_active, created_at FROM accounts WHERE owner_id = ? ORDER BY id"
	qExportCategories = "SELECT id, name, kind FROM categories WHERE owner_id = ? ORDER BY id"
	qExportPayPeriods = "SELECT id, pay_date, gross_income_cents, note FROM pay_periods WHERE owner_id = ? ORDER BY id"
	qExportTxns       = "SELECT id, pay_period_id, account_id, category_id, type, amount_cents, description, txn_date, planned_payment_id, counterparty_user_id, reference, created_at FROM transactions WHERE owner_id = ? ORDER BY id"
	qExportPlanned    = "SELECT id, account_id, description, amount_cents, due_date, auto_debit, status, linked_txn_id, created_at FROM planned_payments WHERE owner_id = ? ORDER BY id"
	qExportEntries    = "SELECT id, pay_period_id, account_id, amount_cents, entry_date, note, created_at FROM saving_entries WHERE owner_id = ? ORDER BY id"
	qExportGoals      = "SELECT id, name, target_amount_cents, target_date, created_at FROM saving_goals WHERE owner_id = ? ORDER BY id"
	// Link rows carry no owner of their own; ownership filters
	// transitively through the referenced saving entry.
	qExportEntryGoals = "SELECT l.saving_entry_id, l.goal_id FROM saving_entry_goals l JOIN saving_entries e ON e.id = l.saving_entry_id WHERE e.owner_id = ? ORDER BY l.saving_entry_id, l.goal_id"
)

func (e *Exporter) Export(ctx context.Context, ownerID int64) (models.ExportSnapshot, error) {
	snap := models.ExportSnapshot{
		SnapshotID: uuid.NewString(),
		OwnerID:    ownerID,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	rows, err := e.store.db.QueryContext(ctx, qExportAccounts, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.IsActive, &a.CreatedAt); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		a.OwnerID = ownerID
		snap.Accounts = append(snap.Accounts, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportCategories, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		c.OwnerID.Int64 = ownerID
		c.OwnerID.Valid = true
		snap.Categories = append(snap.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportPayPeriods, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var p models.PayPeriod
		if err := rows.Scan(&p.ID, &p.PayDate, &p.GrossIncomeCents, &p.Note); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		p.OwnerID = ownerID
		snap.PayPeriods = append(snap.PayPeriods, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportTxns, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.PayPeriodID, &t.AccountID, &t.CategoryID, &t.Type, &t.AmountCents, &t.Description, &t.TxnDate, &t.PlannedPaymentID, &t.CounterpartyUserID, &t.Reference, &t.CreatedAt); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		t.OwnerID = ownerID
		snap.Transactions = append(snap.Transactions, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportPlanned, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var p models.PlannedPayment
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Description, &p.AmountCents, &p.DueDate, &p.AutoDebit, &p.Status, &p.LinkedTxnID, &p.CreatedAt); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		p.OwnerID = ownerID
		snap.PlannedPayments = append(snap.PlannedPayments, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportEntries, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var s models.SavingEntry
		if err := rows.Scan(&s.ID, &s.PayPeriodID, &s.AccountID, &s.AmountCents, &s.EntryDate, &s.Note, &s.CreatedAt); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		s.OwnerID = ownerID
		snap.SavingEntries = append(snap.SavingEntries, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportGoals, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var g models.SavingGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmountCents, &g.TargetDate, &g.CreatedAt); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		g.OwnerID = ownerID
		snap.SavingGoals = append(snap.SavingGoals, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	rows, err = e.store.db.QueryContext(ctx, qExportEntryGoals, ownerID)
	if err != nil {
		return snap, storeErr(err)
	}
	for rows.Next() {
		var l models.SavingEntryGoal
		if err := rows.Scan(&l.SavingEntryID, &l.GoalID); err != nil {
			rows.Close()
			return snap, storeErr(err)
		}
		snap.SavingEntryGoals = append(snap.SavingEntryGoals, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, storeErr(err)
	}

	return snap, nil
}
