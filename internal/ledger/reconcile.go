package ledger

import (
	"context"
	"database/sql"

	"paycheck_pilot/internal/models"
	"paycheck_pilot/pkg/utils"
)

// Reconciler merges a caller-supplied batch of records, one table at a
// time, into the store. Per-record independence is a hard contract: one
// record's failure never prevents processing of the rest of the batch.
type Reconciler struct {
	store *Store
}

func NewReconciler(store *Store) *Reconciler {
	return &Reconciler{store: store}
}

const (
	qInsertAccount = "INSERT INTO accounts (id, owner_id, name, type, currency, is_active) VALUES (?, ?, ?, ?, ?, ?)"
	qUpdateAccount = "UPDATE accounts SET name = ?, type = ?, currency = ?, is_active = ? WHERE id = ? AND owner_id = ?"

	qInsertCategory = "INSERT INTO categories (id, owner_id, name, kind) VALUES (?, ?, ?, ?)"
	qUpdateCategory = "UPDATE categories SET name = ?, kind = ? WHERE id = ? AND owner_id = ?"

	qInsertPayPeriod = "INSERT INTO pay_periods (id, owner_id, pay_date, gross_income_cents, note) VALUES (?, ?, ?, ?, ?)"
	qUpdatePayPeriod = "UPDATE pay_periods SET pay_date = ?, gross_income_cents = ?, note = ? WHERE id = ? AND owner_id = ?"

	qInsertPlanned = "INSERT INTO planned_payments (id, owner_id, account_id, description, amount_cents, due_date, auto_debit, status, linked_txn_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	qUpdatePlanned = "UPDATE planned_payments SET account_id = ?, description = ?, amount_cents = ?, due_date = ?, auto_debit = ?, status = ?, linked_txn_id = ? WHERE id = ? AND owner_id = ?"

	qInsertTxnFull = "INSERT INTO transactions (id, owner_id, pay_period_id, account_id, category_id, type, amount_cents, description, txn_date, planned_payment_id, counterparty_user_id, reference) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	qInsertSavingEntry = "INSERT INTO saving_entries (id, owner_id, pay_period_id, account_id, amount_cents, entry_date, note) VALUES (?, ?, ?, ?, ?, ?, ?)"

	qInsertSavingGoal = "INSERT INTO saving_goals (id, owner_id, name, target_amount_cents, target_date) VALUES (?, ?, ?, ?, ?)"
	qUpdateSavingGoal = "UPDATE saving_goals SET name = ?, target_amount_cents = ?, target_date = ? WHERE id = ? AND owner_id = ?"

	qInsertEntryGoal = "INSERT INTO saving_entry_goals (saving_entry_id, goal_id) VALUES (?, ?)"
)

// mergeRec is one record's merge plan: an insert keyed by the record's
// own declared identifier, plus an optional update applied only on a
// duplicate-key conflict. Tables without an update path skip conflicting
// records instead.
type mergeRec struct {
	insert func(ctx context.Context, q DBTX) error
	update func(ctx context.Context, q DBTX) error
}

// Reconcile merges the batch for one owner. Record owner ids in the
// payload are ignored; everything is written under ownerID. With dryRun
// the store is never touched and every structurally valid record counts
// as a hypothetical insert.
func (r *Reconciler) Reconcile(ctx context.Context, ownerID int64, batch models.ImportBatch, dryRun bool) (models.ImportSummary, error) {
	if err := validateBatch(batch); err != nil {
		return models.ImportSummary{}, err
	}

	sum := models.ImportSummary{
		DryRun: dryRun,
		Tables: map[string]models.TableCounts{},
	}

	r.mergeTable(ctx, "accounts", accountRecs(ownerID, batch.Accounts), dryRun, &sum)
	r.mergeTable(ctx, "categories", categoryRecs(ownerID, batch.Categories), dryRun, &sum)
	r.mergeTable(ctx, "pay_periods", payPeriodRecs(ownerID, batch.PayPeriods), dryRun, &sum)
	r.mergeTable(ctx, "planned_payments", plannedRecs(ownerID, batch.PlannedPayments), dryRun, &sum)
	r.mergeTable(ctx, "transactions", transactionRecs(ownerID, batch.Transactions), dryRun, &sum)
	r.mergeTable(ctx, "saving_entries", savingEntryRecs(ownerID, batch.SavingEntries), dryRun, &sum)
	r.mergeTable(ctx, "saving_goals", savingGoalRecs(ownerID, batch.SavingGoals), dryRun, &sum)
	r.mergeTable(ctx, "saving_entry_goals", entryGoalRecs(batch.SavingEntryGoals), dryRun, &sum)

	return sum, nil
}

// mergeTable processes one table's records independently of each other.
// Each record's insert-or-update decision runs inside its own
// transaction so a concurrent reconciliation of overlapping data never
// observes a half-applied record.
func (r *Reconciler) mergeTable(ctx context.Context, name string, recs []mergeRec, dryRun bool, sum *models.ImportSummary) {
	if len(recs) == 0 {
		return
	}

	var counts models.TableCounts
	for _, rec := range recs {
		if dryRun {
			counts.Inserted++
			continue
		}

		updated := false
		err := r.store.withinTx(ctx, func(tx *sql.Tx) error {
			insErr := rec.insert(ctx, tx)
			if insErr == nil {
				return nil
			}
			if isDuplicateEntry(insErr) && rec.update != nil {
				if upErr := rec.update(ctx, tx); upErr != nil {
					return upErr
				}
				updated = true
				return nil
			}
			return insErr
		})
		switch {
		case err != nil:
			// Absorbed per contract; the batch keeps going.
			utils.Logger.Debugf("reconcile %s: record skipped: %v", name, err)
			counts.Skipped++
		case updated:
			counts.Updated++
		default:
			counts.Inserted++
		}
	}

	sum.Tables[name] = counts
	sum.Totals.Inserted += counts.Inserted
	sum.Totals.Updated += counts.Updated
	sum.Totals.Skipped += counts.Skipped
}

// validateBatch rejects a structurally malformed batch before any record
// is processed. Per-record storage failures are not its concern.
func validateBatch(batch models.ImportBatch) error {
	for _, a := range batch.Accounts {
		if a.ID <= 0 {
			return invalidInput("accounts: record id must be positive")
		}
		if !models.ValidAccountType(a.Type) {
			return invalidInput("accounts: unknown type")
		}
		if err := ValidateCurrency(a.Currency); err != nil {
			return err
		}
	}
	for _, c := range batch.Categories {
		if c.ID <= 0 {
			return invalidInput("categories: record id must be positive")
		}
		if !models.ValidCategoryKind(c.Kind) {
			return invalidInput("categories: unknown kind")
		}
	}
	for _, p := range batch.PayPeriods {
		if p.ID <= 0 {
			return invalidInput("pay_periods: record id must be positive")
		}
		if p.GrossIncomeCents < 0 {
			return invalidInput("pay_periods: gross income must not be negative")
		}
		if err := ValidateDate(p.PayDate); err != nil {
			return err
		}
	}
	for _, pp := range batch.PlannedPayments {
		if pp.ID <= 0 {
			return invalidInput("planned_payments: record id must be positive")
		}
		if err := ValidatePlannedMagnitude(pp.AmountCents); err != nil {
			return err
		}
		if err := ValidateDate(pp.DueDate); err != nil {
			return err
		}
	}
	for _, t := range batch.Transactions {
		if t.ID <= 0 {
			return invalidInput("transactions: record id must be positive")
		}
		if err := ValidateTxnAmount(t.Type, t.AmountCents); err != nil {
			return err
		}
		if err := ValidateDate(t.TxnDate); err != nil {
			return err
		}
	}
	for _, e := range batch.SavingEntries {
		if e.ID <= 0 {
			return invalidInput("saving_entries: record id must be positive")
		}
		if err := ValidateSavingAmount(e.AmountCents); err != nil {
			return err
		}
		if err := ValidateDate(e.EntryDate); err != nil {
			return err
		}
	}
	for _, g := range batch.SavingGoals {
		if g.ID <= 0 {
			return invalidInput("saving_goals: record id must be positive")
		}
		if g.TargetAmountCents <= 0 {
			return invalidInput("saving_goals: target amount must be positive")
		}
		if err := ValidateDate(g.TargetDate); err != nil {
			return err
		}
	}
	for _, l := range batch.SavingEntryGoals {
		if l.SavingEntryID <= 0 || l.GoalID <= 0 {
			return invalidInput("saving_entry_goals: both ids must be positive")
		}
	}
	return nil
}

func accountRecs(ownerID int64, rows []models.Account) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertAccount, row.ID, ownerID, row.Name, row.Type, row.Currency, row.IsActive)
				return err
			},
			update: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qUpdateAccount, row.Name, row.Type, row.Currency, row.IsActive, row.ID, ownerID)
				return err
			},
		})
	}
	return recs
}

func categoryRecs(ownerID int64, rows []models.Category) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertCategory, row.ID, ownerID, row.Name, row.Kind)
				return err
			},
			update: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qUpdateCategory, row.Name, row.Kind, row.ID, ownerID)
				return err
			},
		})
	}
	return recs
}

func payPeriodRecs(ownerID int64, rows []models.PayPeriod) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertPayPeriod, row.ID, ownerID, row.PayDate, row.GrossIncomeCents, row.Note)
				return err
			},
			update: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qUpdatePayPeriod, row.PayDate, row.GrossIncomeCents, row.Note, row.ID, ownerID)
				return err
			},
		})
	}
	return recs
}

func plannedRecs(ownerID int64, rows []models.PlannedPayment) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		status := row.Status
		if status == "" {
			status = models.PlannedStatusPlanned
		}
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertPlanned, row.ID, ownerID, row.AccountID, row.Description, row.AmountCents, row.DueDate, row.AutoDebit, status, row.LinkedTxnID)
				return err
			},
			update: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qUpdatePlanned, row.AccountID, row.Description, row.AmountCents, row.DueDate, row.AutoDebit, status, row.LinkedTxnID, row.ID, ownerID)
				return err
			},
		})
	}
	return recs
}

// Transactions are append-only event rows: an id collision means the row
// was already imported, so there is no update path.
func transactionRecs(ownerID int64, rows []models.Transaction) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertTxnFull, row.ID, ownerID, row.PayPeriodID, row.AccountID, row.CategoryID, row.Type, row.AmountCents, row.Description, row.TxnDate, row.PlannedPaymentID, row.CounterpartyUserID, row.Reference)
				return err
			},
		})
	}
	return recs
}

func savingEntryRecs(ownerID int64, rows []models.SavingEntry) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertSavingEntry, row.ID, ownerID, row.PayPeriodID, row.AccountID, row.AmountCents, row.EntryDate, row.Note)
				return err
			},
		})
	}
	return recs
}

func savingGoalRecs(ownerID int64, rows []models.SavingGoal) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertSavingGoal, row.ID, ownerID, row.Name, row.TargetAmountCents, row.TargetDate)
				return err
			},
			update: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qUpdateSavingGoal, row.Name, row.TargetAmountCents, row.TargetDate, row.ID, ownerID)
				return err
			},
		})
	}
	return recs
}

// Link rows have a composite key; a duplicate means the link already
// exists, which is exactly the idempotent outcome, so they skip.
func entryGoalRecs(rows []models.SavingEntryGoal) []mergeRec {
	recs := make([]mergeRec, 0, len(rows))
	for _, row := range rows {
		row := row
		recs = append(recs, mergeRec{
			insert: func(ctx context.Context, q DBTX) error {
				_, err := q.ExecContext(ctx, qInsertEntryGoal, row.SavingEntryID, row.GoalID)
				return err
			},
		})
	}
	return recs
}
