package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSnapshot(t *testing.T) {
	store, mock := newMockStore(t)
	exporter := NewExporter(store)

	mock.ExpectQuery(regexp.QuoteMeta(qExportAccounts)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "currency", "is_active", "created_at"}).
			AddRow(1, "Main", "bank", "USD", true, "2025-01-01 00:00:00"))
	mock.ExpectQuery(regexp.QuoteMeta(qExportCategories)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "kind"}).
			AddRow(2, "Groceries", "expense"))
	mock.ExpectQuery(regexp.QuoteMeta(qExportPayPeriods)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pay_date", "gross_income_cents", "note"}))
	mock.ExpectQuery(regexp.QuoteMeta(qExportTxns)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pay_period_id", "account_id", "category_id", "type", "amount_cents", "description", "txn_date", "planned_payment_id", "counterparty_user_id", "reference", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(qExportPlanned)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "description", "amount_cents", "due_date", "auto_debit", "status", "linked_txn_id", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(qExportEntries)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pay_period_id", "account_id", "amount_cents", "entry_date", "note", "created_at"}).
			AddRow(3, nil, 1, 50000, "2025-03-01", "", nil))
	mock.ExpectQuery(regexp.QuoteMeta(qExportGoals)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "target_amount_cents", "target_date", "created_at"}).
			AddRow(4, "Vacation", 200000, "2026-06-01", nil))
	mock.ExpectQuery(regexp.QuoteMeta(qExportEntryGoals)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"saving_entry_id", "goal_id"}).
			AddRow(3, 4))

	snap, err := exporter.Export(context.Background(), 7)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.SnapshotID)
	assert.Equal(t, int64(7), snap.OwnerID)
	_, perr := time.Parse(time.RFC3339, snap.ExportedAt)
	assert.NoError(t, perr)

	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, int64(7), snap.Accounts[0].OwnerID)
	require.Len(t, snap.Categories, 1)
	assert.Equal(t, int64(7), snap.Categories[0].OwnerID.Int64)
	assert.Empty(t, snap.Transactions)
	require.Len(t, snap.SavingEntries, 1)
	require.Len(t, snap.SavingGoals, 1)
	require.Len(t, snap.SavingEntryGoals, 1)
	assert.Equal(t, int64(3), snap.SavingEntryGoals[0].SavingEntryID)
	assert.Equal(t, int64(4), snap.SavingEntryGoals[0].GoalID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportStoreFailure(t *testing.T) {
	store, mock := newMockStore(t)
	exporter := NewExporter(store)

	mock.ExpectQuery(regexp.QuoteMeta(qExportAccounts)).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection lost"))

	_, err := exporter.Export(context.Background(), 7)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}
