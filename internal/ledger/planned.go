package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"paycheck_pilot/internal/models"
)

// PlannedPayments owns the planned -> executed | canceled lifecycle and
// the transactional link to the expense transaction execution produces.
type PlannedPayments struct {
	store *Store
}

func NewPlannedPayments(store *Store) *PlannedPayments {
	return &PlannedPayments{store: store}
}

// ExecutionInput carries the per-execution overrides. A nil field falls
// back to what the payment itself stored.
type ExecutionInput struct {
	TxnDate     string
	AccountID   *int64
	CategoryID  *int64
	Description *string
}

const (
	qGetPlannedForExec = "SELECT account_id, description, amount_cents, status FROM planned_payments WHERE id = ? AND owner_id = ?"
	qInsertExecTxn     = "INSERT INTO transactions (owner_id, account_id, category_id, type, amount_cents, description, txn_date, planned_payment_id, reference, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	qMarkExecuted      = "UPDATE planned_payments SET status = 'executed', linked_txn_id = ? WHERE id = ? AND status = 'planned'"
	qMarkCanceled      = "UPDATE planned_payments SET status = 'canceled' WHERE id = ? AND owner_id = ? AND status = 'planned'"
	qGetPlannedStatus  = "SELECT status FROM planned_payments WHERE id = ? AND owner_id = ?"
)

// NewReference tags a ledger row with a short unique reference.
func NewReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// Execute turns a planned payment into a real expense transaction and
// marks the payment executed, as one all-or-nothing unit. The status
// transition is a conditional write; if a concurrent caller got there
// first the whole operation fails with ErrInvalidState and no duplicate
// transaction is ever created.
func (p *PlannedPayments) Execute(ctx context.Context, ownerID, paymentID int64, in ExecutionInput) (int64, error) {
	if err := ValidateDate(in.TxnDate); err != nil {
		return 0, err
	}

	var (
		storedAccount sql.NullInt64
		description   string
		amountCents   int64
		status        string
	)
	err := p.store.db.QueryRowContext(ctx, qGetPlannedForExec, paymentID, ownerID).
		Scan(&storedAccount, &description, &amountCents, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, notFound("planned payment")
		}
		return 0, storeErr(err)
	}

	if status != models.PlannedStatusPlanned {
		return 0, invalidState("payment is " + status)
	}

	// Override account wins over the stored one; either way it must
	// belong to the payment's owner.
	accountID := storedAccount.Int64
	hasAccount := storedAccount.Valid
	if in.AccountID != nil {
		accountID = *in.AccountID
		hasAccount = true
	}
	if !hasAccount {
		return 0, invalidInput("no account resolvable for execution")
	}

	owned, err := accountOwnedBy(ctx, p.store.db, accountID, ownerID)
	if err != nil {
		return 0, err
	}
	if !owned {
		return 0, notFound("account")
	}

	var categoryID sql.NullInt64
	if in.CategoryID != nil {
		usable, err := categoryUsableBy(ctx, p.store.db, *in.CategoryID, ownerID)
		if err != nil {
			return 0, err
		}
		if !usable {
			return 0, notFound("category")
		}
		categoryID = sql.NullInt64{Int64: *in.CategoryID, Valid: true}
	}

	if in.Description != nil {
		description = *in.Description
	}

	// Stored magnitude is positive by invariant; force the ledger sign
	// negative regardless. This is the single translation point between
	// magnitude and signed amount.
	signed := -abs(amountCents)

	var txnID int64
	err = p.store.withinTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, qInsertExecTxn,
			ownerID, accountID, categoryID, models.TxnTypeExpense, signed,
			description, in.TxnDate, paymentID, NewReference("ppx"),
			time.Now().UTC().Format("2006-01-02 15:04:05"))
		if err != nil {
			return storeErr(err)
		}
		txnID, err = res.LastInsertId()
		if err != nil {
			return storeErr(err)
		}

		guard, err := tx.ExecContext(ctx, qMarkExecuted, txnID, paymentID)
		if err != nil {
			return storeErr(err)
		}
		affected, err := guard.RowsAffected()
		if err != nil {
			return storeErr(err)
		}
		if affected == 0 {
			return invalidState("payment already transitioned")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return txnID, nil
}

// Cancel moves a planned payment to canceled. Terminal states stay
// terminal: anything other than planned fails with ErrInvalidState.
func (p *PlannedPayments) Cancel(ctx context.Context, ownerID, paymentID int64) error {
	res, err := p.store.db.ExecContext(ctx, qMarkCanceled, paymentID, ownerID)
	if err != nil {
		return storeErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if affected == 1 {
		return nil
	}

	// Nothing changed: distinguish missing from already-terminal.
	var status string
	err = p.store.db.QueryRowContext(ctx, qGetPlannedStatus, paymentID, ownerID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return notFound("planned payment")
		}
		return storeErr(err)
	}
	return invalidState("payment is " + status)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
