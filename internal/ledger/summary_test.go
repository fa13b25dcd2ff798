package ledger

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodSummaryLeftover(t *testing.T) {
	store, mock := newMockStore(t)
	summaries := NewSummaries(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPayPeriod)).
		WithArgs(int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"pay_date"}).AddRow("2025-03-01"))
	mock.ExpectQuery(regexp.QuoteMeta(qSumPeriodIncome)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(500000))
	mock.ExpectQuery(regexp.QuoteMeta(qSumPeriodExpenses)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(120000))
	mock.ExpectQuery(regexp.QuoteMeta(qSumPeriodSavings)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(50000))
	// The reserve window is half-open: [pay_date, pay_date+14).
	mock.ExpectQuery(regexp.QuoteMeta(qSumReservedPlanned)).
		WithArgs(int64(7), "2025-03-01", "2025-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(30000))

	out, err := summaries.PeriodSummary(context.Background(), 7, 11)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", out.PayDate)
	assert.Equal(t, "2025-03-15", out.WindowEnd)
	assert.Equal(t, int64(500000), out.IncomeIn)
	assert.Equal(t, int64(120000), out.ExpensesOut)
	assert.Equal(t, int64(50000), out.SavingsOut)
	assert.Equal(t, int64(30000), out.ReservedPlanned)
	assert.Equal(t, int64(300000), out.Leftover)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodSummaryEmptyPeriod(t *testing.T) {
	store, mock := newMockStore(t)
	summaries := NewSummaries(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPayPeriod)).
		WithArgs(int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"pay_date"}).AddRow("2025-12-26"))
	mock.ExpectQuery(regexp.QuoteMeta(qSumPeriodIncome)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(qSumPeriodExpenses)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(qSumPeriodSavings)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))
	// Window crosses a year boundary.
	mock.ExpectQuery(regexp.QuoteMeta(qSumReservedPlanned)).
		WithArgs(int64(7), "2025-12-26", "2026-01-09").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))

	out, err := summaries.PeriodSummary(context.Background(), 7, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Leftover)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodSummaryNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	summaries := NewSummaries(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGetPayPeriod)).
		WithArgs(int64(11), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"pay_date"}))

	_, err := summaries.PeriodSummary(context.Background(), 7, 11)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavingsSummary(t *testing.T) {
	store, mock := newMockStore(t)
	summaries := NewSummaries(store)

	mock.ExpectQuery(regexp.QuoteMeta(qSavingsByAccount)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"type", "name", "deposits", "withdrawals"}).
			AddRow("bank", "Emergency", 80000, 20000).
			AddRow("savings", "Holiday", 50000, 0))

	out, err := summaries.SavingsSummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(130000), out.Deposits)
	assert.Equal(t, int64(20000), out.Withdrawals)
	assert.Equal(t, int64(110000), out.Net)
	require.Len(t, out.ByAccount, 2)
	assert.Equal(t, SavingsGroup{AccountType: "bank", AccountName: "Emergency", Deposits: 80000, Withdrawals: 20000, Net: 60000}, out.ByAccount[0])
	assert.Equal(t, SavingsGroup{AccountType: "savings", AccountName: "Holiday", Deposits: 50000, Withdrawals: 0, Net: 50000}, out.ByAccount[1])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavingsSummaryNoEntries(t *testing.T) {
	store, mock := newMockStore(t)
	summaries := NewSummaries(store)

	mock.ExpectQuery(regexp.QuoteMeta(qSavingsByAccount)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"type", "name", "deposits", "withdrawals"}))

	out, err := summaries.SavingsSummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(0), out.Net)
	assert.Empty(t, out.ByAccount)
	assert.NotNil(t, out.ByAccount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalProgress(t *testing.T) {
	store, mock := newMockStore(t)
	summaries := NewSummaries(store)

	mock.ExpectQuery(regexp.QuoteMeta(qGoalProgress)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "target_amount_cents", "target_date", "saved"}).
			AddRow(1, "Vacation", 200000, "2026-06-01", 150000).
			AddRow(2, "Laptop", 100000, "2026-09-01", 120000))

	out, err := summaries.GoalProgress(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, int64(50000), out[0].RemainingCents)
	// Overshoot goes negative rather than clamping.
	assert.Equal(t, int64(-20000), out[1].RemainingCents)

	require.NoError(t, mock.ExpectationsWereMet())
}
