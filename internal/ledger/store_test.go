package ledger

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("insert failed: %w", dup)))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsDuplicateEntry(fmt.Errorf("plain error")))
	assert.False(t, IsDuplicateEntry(nil))
}

func TestAccountOwnedBy(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(qAccountOwned)).
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	owned, err := store.AccountOwnedBy(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.True(t, owned)

	mock.ExpectQuery(regexp.QuoteMeta(qAccountOwned)).
		WithArgs(int64(3), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	owned, err = store.AccountOwnedBy(context.Background(), 3, 8)
	require.NoError(t, err)
	assert.False(t, owned)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryUsableByIncludesGlobal(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(qCategoryUsable)).
		WithArgs(int64(2), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	usable, err := store.CategoryUsableBy(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.True(t, usable)

	require.NoError(t, mock.ExpectationsWereMet())
}
