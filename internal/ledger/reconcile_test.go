package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paycheck_pilot/internal/models"
)

var errDup = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

func TestReconcileDryRunNeverTouchesStore(t *testing.T) {
	store, mock := newMockStore(t)
	r := NewReconciler(store)

	batch := models.ImportBatch{
		Accounts: []models.Account{
			{ID: 1, Name: "Main", Type: "bank", Currency: "USD", IsActive: true},
			{ID: 2, Name: "Cash", Type: "cash", Currency: "USD", IsActive: true},
		},
		SavingGoals: []models.SavingGoal{
			{ID: 4, Name: "Vacation", TargetAmountCents: 200000, TargetDate: "2026-06-01"},
		},
	}

	sum, err := r.Reconcile(context.Background(), 7, batch, true)
	require.NoError(t, err)

	assert.True(t, sum.DryRun)
	assert.Equal(t, models.TableCounts{Inserted: 2}, sum.Tables["accounts"])
	assert.Equal(t, models.TableCounts{Inserted: 1}, sum.Tables["saving_goals"])
	assert.Equal(t, models.TableCounts{Inserted: 3}, sum.Totals)

	// No begin, no exec, nothing.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileInsertsUnderCallerOwner(t *testing.T) {
	store, mock := newMockStore(t)
	r := NewReconciler(store)

	// The record claims owner 999; the write still lands under owner 7.
	batch := models.ImportBatch{
		Accounts: []models.Account{
			{ID: 1, OwnerID: 999, Name: "Main", Type: "bank", Currency: "USD", IsActive: true},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertAccount)).
		WithArgs(int64(1), int64(7), "Main", "bank", "USD", true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sum, err := r.Reconcile(context.Background(), 7, batch, false)
	require.NoError(t, err)

	assert.Equal(t, models.TableCounts{Inserted: 1}, sum.Tables["accounts"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileDuplicateUpdates(t *testing.T) {
	store, mock := newMockStore(t)
	r := NewReconciler(store)

	batch := models.ImportBatch{
		Accounts: []models.Account{
			{ID: 1, Name: "Renamed", Type: "bank", Currency: "EUR", IsActive: false},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertAccount)).
		WithArgs(int64(1), int64(7), "Renamed", "bank", "EUR", false).
		WillReturnError(errDup)
	mock.ExpectExec(regexp.QuoteMeta(qUpdateAccount)).
		WithArgs("Renamed", "bank", "EUR", false, int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sum, err := r.Reconcile(context.Background(), 7, batch, false)
	require.NoError(t, err)

	assert.Equal(t, models.TableCounts{Updated: 1}, sum.Tables["accounts"])
	assert.Equal(t, models.TableCounts{Updated: 1}, sum.Totals)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileDuplicateSkipsAppendOnlyTable(t *testing.T) {
	store, mock := newMockStore(t)
	r := NewReconciler(store)

	// Transactions have no update path; an id collision means the row
	// was already imported.
	batch := models.ImportBatch{
		Transactions: []models.Transaction{
			{ID: 5, AccountID: 1, Type: "expense", AmountCents: -2500, TxnDate: "2025-03-02"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertTxnFull)).
		WillReturnError(errDup)
	mock.ExpectRollback()

	sum, err := r.Reconcile(context.Background(), 7, batch, false)
	require.NoError(t, err)

	assert.Equal(t, models.TableCounts{Skipped: 1}, sum.Tables["transactions"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileRecordFailureIsIsolated(t *testing.T) {
	store, mock := newMockStore(t)
	r := NewReconciler(store)

	batch := models.ImportBatch{
		Accounts: []models.Account{
			{ID: 1, Name: "Broken", Type: "bank", Currency: "USD", IsActive: true},
			{ID: 2, Name: "Fine", Type: "cash", Currency: "USD", IsActive: true},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertAccount)).
		WithArgs(int64(1), int64(7), "Broken", "bank", "USD", true).
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertAccount)).
		WithArgs(int64(2), int64(7), "Fine", "cash", "USD", true).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	sum, err := r.Reconcile(context.Background(), 7, batch, false)
	require.NoError(t, err)

	assert.Equal(t, models.TableCounts{Inserted: 1, Skipped: 1}, sum.Tables["accounts"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileMalformedBatchRejectedUpfront(t *testing.T) {
	store, mock := newMockStore(t)
	r := NewReconciler(store)

	tests := []struct {
		name  string
		batch models.ImportBatch
	}{
		{
			name: "account without id",
			batch: models.ImportBatch{
				Accounts: []models.Account{{Name: "Main", Type: "bank", Currency: "USD"}},
			},
		},
		{
			name: "account with unknown type",
			batch: models.ImportBatch{
				Accounts: []models.Account{{ID: 1, Name: "Main", Type: "wallet", Currency: "USD"}},
			},
		},
		{
			name: "transaction violating sign rule",
			batch: models.ImportBatch{
				Transactions: []models.Transaction{{ID: 5, AccountID: 1, Type: "expense", AmountCents: 2500, TxnDate: "2025-03-02"}},
			},
		},
		{
			name: "planned payment with negative magnitude",
			batch: models.ImportBatch{
				PlannedPayments: []models.PlannedPayment{{ID: 3, AmountCents: -100, DueDate: "2025-03-02"}},
			},
		},
		{
			name: "pay period with bad date",
			batch: models.ImportBatch{
				PayPeriods: []models.PayPeriod{{ID: 2, PayDate: "March 1st"}},
			},
		},
		{
			name: "link with zero goal id",
			batch: models.ImportBatch{
				SavingEntryGoals: []models.SavingEntryGoal{{SavingEntryID: 1}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Reconcile(context.Background(), 7, tc.batch, false)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	require.NoError(t, mock.ExpectationsWereMet())
}
