package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// DBTX is the slice of database/sql shared by *sql.DB and *sql.Tx. Core
// queries run against it so the same code works inside and outside an
// atomic unit.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the store-access capability threaded into every component.
// Nothing in this package holds a shared handle; each component gets its
// Store at construction time.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// withinTx runs fn inside one transaction. fn returning an error rolls
// everything back; otherwise the commit error (if any) is returned.
func (s *Store) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	return nil
}

const (
	qAccountOwned   = "SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ? AND owner_id = ?)"
	qPayPeriodOwned = "SELECT EXISTS(SELECT 1 FROM pay_periods WHERE id = ? AND owner_id = ?)"
	qUserExists     = "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)"
	qCategoryUsable = "SELECT EXISTS(SELECT 1 FROM categories WHERE id = ? AND (owner_id = ? OR owner_id IS NULL))"
	qGoalOwned      = "SELECT EXISTS(SELECT 1 FROM saving_goals WHERE id = ? AND owner_id = ?)"
	qEntryOwned     = "SELECT EXISTS(SELECT 1 FROM saving_entries WHERE id = ? AND owner_id = ?)"
)

func existsCheck(ctx context.Context, q DBTX, query string, args ...any) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, storeErr(err)
	}
	return exists, nil
}

// accountOwnedBy is the ownership-check primitive: does the account
// belong to this owner. Called before every cross-entity write.
func accountOwnedBy(ctx context.Context, q DBTX, accountID, ownerID int64) (bool, error) {
	return existsCheck(ctx, q, qAccountOwned, accountID, ownerID)
}

func payPeriodOwnedBy(ctx context.Context, q DBTX, payPeriodID, ownerID int64) (bool, error) {
	return existsCheck(ctx, q, qPayPeriodOwned, payPeriodID, ownerID)
}

// categoryUsableBy allows both owner-scoped and global (NULL owner) rows.
func categoryUsableBy(ctx context.Context, q DBTX, categoryID, ownerID int64) (bool, error) {
	return existsCheck(ctx, q, qCategoryUsable, categoryID, ownerID)
}

func goalOwnedBy(ctx context.Context, q DBTX, goalID, ownerID int64) (bool, error) {
	return existsCheck(ctx, q, qGoalOwned, goalID, ownerID)
}

func entryOwnedBy(ctx context.Context, q DBTX, entryID, ownerID int64) (bool, error) {
	return existsCheck(ctx, q, qEntryOwned, entryID, ownerID)
}

func userExists(ctx context.Context, q DBTX, userID int64) (bool, error) {
	return existsCheck(ctx, q, qUserExists, userID)
}

// Exported ownership checks for the HTTP layer; the core calls the
// unexported forms so they can run inside a transaction.

func (s *Store) AccountOwnedBy(ctx context.Context, accountID, ownerID int64) (bool, error) {
	return accountOwnedBy(ctx, s.db, accountID, ownerID)
}

func (s *Store) PayPeriodOwnedBy(ctx context.Context, payPeriodID, ownerID int64) (bool, error) {
	return payPeriodOwnedBy(ctx, s.db, payPeriodID, ownerID)
}

func (s *Store) CategoryUsableBy(ctx context.Context, categoryID, ownerID int64) (bool, error) {
	return categoryUsableBy(ctx, s.db, categoryID, ownerID)
}

func (s *Store) GoalOwnedBy(ctx context.Context, goalID, ownerID int64) (bool, error) {
	return goalOwnedBy(ctx, s.db, goalID, ownerID)
}

func (s *Store) EntryOwnedBy(ctx context.Context, entryID, ownerID int64) (bool, error) {
	return entryOwnedBy(ctx, s.db, entryID, ownerID)
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	return userExists(ctx, s.db, userID)
}

// IsDuplicateEntry is the exported form for callers outside the core.
func IsDuplicateEntry(err error) bool {
	return isDuplicateEntry(err)
}

// isDuplicateEntry reports a MySQL duplicate-key violation (error 1062).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
