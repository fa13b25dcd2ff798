package ledger

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePlannedPayment(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}).
			AddRow(3, "Rent", 120000, "planned"))
	mock.ExpectQuery(regexp.QuoteMeta(qAccountOwned)).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertExecTxn)).
		WithArgs(int64(7), int64(3), nil, "expense", int64(-120000), "Rent", "2025-03-05", int64(42), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectExec(regexp.QuoteMeta(qMarkExecuted)).
		WithArgs(int64(99), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txnID, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "2025-03-05"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), txnID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteForcesNegativeSign(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	// A magnitude that somehow arrived negative still comes out as a
	// negative ledger amount, never positive.
	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}).
			AddRow(3, "Rent", -120000, "planned"))
	mock.ExpectQuery(regexp.QuoteMeta(qAccountOwned)).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertExecTxn)).
		WithArgs(int64(7), int64(3), nil, "expense", int64(-120000), "Rent", "2025-03-05", int64(42), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec(regexp.QuoteMeta(qMarkExecuted)).
		WithArgs(int64(100), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "2025-03-05"})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteWithOverrides(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	overrideAccount := int64(8)
	overrideCategory := int64(2)
	overrideDesc := "March rent"

	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}).
			AddRow(3, "Rent", 120000, "planned"))
	// The override account wins over the stored one.
	mock.ExpectQuery(regexp.QuoteMeta(qAccountOwned)).
		WithArgs(int64(8), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(qCategoryUsable)).
		WithArgs(int64(2), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertExecTxn)).
		WithArgs(int64(7), int64(8), int64(2), "expense", int64(-120000), "March rent", "2025-03-05", int64(42), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(regexp.QuoteMeta(qMarkExecuted)).
		WithArgs(int64(101), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txnID, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{
		TxnDate:     "2025-03-05",
		AccountID:   &overrideAccount,
		CategoryID:  &overrideCategory,
		Description: &overrideDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), txnID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteAlreadyExecuted(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}).
			AddRow(3, "Rent", 120000, "executed"))

	_, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "2025-03-05"})
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteConcurrentTransitionRollsBack(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}).
			AddRow(3, "Rent", 120000, "planned"))
	mock.ExpectQuery(regexp.QuoteMeta(qAccountOwned)).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// A concurrent caller transitioned the payment between the read and
	// the conditional write: zero rows affected, everything rolls back.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(qInsertExecTxn)).
		WithArgs(int64(7), int64(3), nil, "expense", int64(-120000), "Rent", "2025-03-05", int64(42), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectExec(regexp.QuoteMeta(qMarkExecuted)).
		WithArgs(int64(99), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "2025-03-05"})
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteNoResolvableAccount(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}).
			AddRow(nil, "Rent", 120000, "planned"))

	_, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "2025-03-05"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedForExec)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "description", "amount_cents", "status"}))

	_, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "2025-03-05"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteBadDate(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	_, err := payments.Execute(context.Background(), 7, 42, ExecutionInput{TxnDate: "05-03-2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelPlannedPayment(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectExec(regexp.QuoteMeta(qMarkCanceled)).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, payments.Cancel(context.Background(), 7, 42))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectExec(regexp.QuoteMeta(qMarkCanceled)).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedStatus)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	err := payments.Cancel(context.Background(), 7, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTerminalStateStaysTerminal(t *testing.T) {
	store, mock := newMockStore(t)
	payments := NewPlannedPayments(store)

	mock.ExpectExec(regexp.QuoteMeta(qMarkCanceled)).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(qGetPlannedStatus)).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("executed"))

	err := payments.Cancel(context.Background(), 7, 42)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, mock.ExpectationsWereMet())
}
